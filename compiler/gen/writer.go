package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	goimports "golang.org/x/tools/imports"
)

// Writer writes generated files in parallel, formatting them with goimports.
type Writer struct {
	dir     string
	workers int
	format  bool

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks written output.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a writer for the given output directory.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:     dir,
		workers: runtime.GOMAXPROCS(0),
		format:  true,
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithFormat enables or disables goimports formatting.
func (w *Writer) WithFormat(on bool) *Writer {
	w.format = on
	return w
}

// Metrics returns the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write writes all files.
func (w *Writer) Write(ctx context.Context, files []File) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return NewGenerationError("write", w.dir, "create output directory", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	return eg.Wait()
}

// writeFile formats and writes a single file.
func (w *Writer) writeFile(f File) error {
	fullPath := filepath.Join(w.dir, f.Name)
	content := f.Content
	if w.format {
		formatted, err := goimports.Process(fullPath, content, nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := fullPath + ".error"
			_ = os.WriteFile(debugPath, content, 0o644)
			return NewGenerationError("format", f.Name, fmt.Sprintf("unformatted written to %s", debugPath), err)
		}
		content = formatted
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError("write", f.Name, "create directory", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return NewGenerationError("write", f.Name, "", err)
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(content))
	w.mu.Unlock()
	return nil
}

// WriteOutput writes the files of out to the target configured in s.
func WriteOutput(ctx context.Context, s *Settings, out *Output) error {
	if s.Output.Target == "" {
		return NewConfigError("output.target", nil, "missing output target")
	}
	return NewWriter(s.outputDir()).
		WithWorkers(s.Output.Workers).
		WithFormat(s.Output.Format).
		Write(ctx, out.Files)
}
