package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// TextKind tags appended text for presentation.
type TextKind uint8

// Text kinds.
const (
	Plain TextKind = iota
	Keyword
	TypeName
	String
	Comment
	Error
)

// String returns the kind name.
func (k TextKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Keyword:
		return "keyword"
	case TypeName:
		return "type"
	case String:
		return "string"
	case Comment:
		return "comment"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Sink receives generated text. Implementations need not be safe for
// concurrent use: a run appends from one goroutine.
type Sink interface {
	// Append adds text of the given kind.
	Append(kind TextKind, text string)
	// Clear discards all text.
	Clear()
	// StartSnapshot starts capturing appended text. Only one snapshot may
	// be open; a second call returns ErrSnapshotOpen.
	StartSnapshot() error
	// EndSnapshot stops capturing and returns the captured text. It returns
	// ErrNoSnapshot when no snapshot is open.
	EndSnapshot() (string, error)
}

// BufferSink keeps appended text in memory.
type BufferSink struct {
	buf  strings.Builder
	snap *strings.Builder
}

// Append implements Sink.
func (b *BufferSink) Append(_ TextKind, text string) {
	b.buf.WriteString(text)
	if b.snap != nil {
		b.snap.WriteString(text)
	}
}

// Clear implements Sink. An open snapshot is discarded.
func (b *BufferSink) Clear() {
	b.buf.Reset()
	b.snap = nil
}

// StartSnapshot implements Sink.
func (b *BufferSink) StartSnapshot() error {
	if b.snap != nil {
		return ErrSnapshotOpen
	}
	b.snap = &strings.Builder{}
	return nil
}

// EndSnapshot implements Sink.
func (b *BufferSink) EndSnapshot() (string, error) {
	if b.snap == nil {
		return "", ErrNoSnapshot
	}
	s := b.snap.String()
	b.snap = nil
	return s, nil
}

// String returns the text appended since the last Clear.
func (b *BufferSink) String() string { return b.buf.String() }

// ColorSink writes appended text to a terminal, colored per kind, and keeps
// a plain copy like BufferSink.
type ColorSink struct {
	BufferSink
	w       io.Writer
	palette map[TextKind]func(a ...any) string
}

// NewColorSink returns a sink writing colored text to w. Coloring follows
// color.NoColor, so redirected output stays plain.
func NewColorSink(w io.Writer) *ColorSink {
	return &ColorSink{
		w: w,
		palette: map[TextKind]func(a ...any) string{
			Keyword:  color.New(color.FgBlue, color.Bold).SprintFunc(),
			TypeName: color.New(color.FgCyan).SprintFunc(),
			String:   color.New(color.FgGreen).SprintFunc(),
			Comment:  color.New(color.FgHiBlack).SprintFunc(),
			Error:    color.New(color.FgRed, color.Bold).SprintFunc(),
		},
	}
}

// Append implements Sink.
func (c *ColorSink) Append(kind TextKind, text string) {
	c.BufferSink.Append(kind, text)
	if paint, ok := c.palette[kind]; ok {
		text = paint(text)
	}
	_, _ = io.WriteString(c.w, text)
}

// tee fans appended text out to the caller's sink and to the run's own
// buffer, which backs the returned output and per-object files.
type tee struct {
	sink Sink
	buf  strings.Builder
}

func (t *tee) Append(kind TextKind, text string) {
	t.sink.Append(kind, text)
	t.buf.WriteString(text)
}

func (t *tee) Clear() {
	t.sink.Clear()
	t.buf.Reset()
}

func (t *tee) StartSnapshot() error { return t.sink.StartSnapshot() }
func (t *tee) EndSnapshot() (string, error) { return t.sink.EndSnapshot() }

// offset returns the length of the text appended so far.
func (t *tee) offset() int { return t.buf.Len() }

// since returns the text appended after offset off.
func (t *tee) since(off int) string { return t.buf.String()[off:] }
