package load

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/pocogen/schema"
)

// FileProvider loads a YAML schema document instead of a live database.
type FileProvider struct {
	// Path of the document.
	Path string
}

var _ Provider = (*FileProvider)(nil)

// Load implements Provider. The request dialect is used when the document
// does not name one.
func (p *FileProvider) Load(_ context.Context, req Request) (*schema.Server, error) {
	if p.Path == "" {
		return nil, ErrConnectionMissing
	}
	buf, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	doc, err := ParseDocument(buf)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = p.Path
	}
	var fallback schema.Dialect
	if req.Dialect != "" {
		if fallback, err = schema.ParseDialect(req.Dialect); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoMatchingDialect, err)
		}
	}
	return doc.Server(fallback)
}

// ParseDocument decodes a YAML schema document.
func ParseDocument(buf []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(buf, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionInvalid, err)
	}
	return doc, nil
}
