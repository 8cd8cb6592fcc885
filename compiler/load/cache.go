package load

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/pocogen/schema"
)

// cacheFormat is the version of the cache encoding.
const cacheFormat = 1

// SaveCache writes srv to w. The cache keeps everything a provider loads,
// including object error chains, so a build can be repeated without the
// database.
func SaveCache(w io.Writer, srv *schema.Server) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("yaml")
	if err := enc.Encode(NewDocument(srv)); err != nil {
		return fmt.Errorf("pocogen: write schema cache: %w", err)
	}
	return nil
}

// LoadCache reads a model written by SaveCache.
func LoadCache(r io.Reader) (*schema.Server, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("yaml")
	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: read schema cache: %v", ErrConnectionInvalid, err)
	}
	if doc.Format != cacheFormat {
		return nil, fmt.Errorf("%w: schema cache format %d, want %d", ErrConnectionInvalid, doc.Format, cacheFormat)
	}
	return doc.Server("")
}

// CacheProvider loads a model from a cache file written by SaveCache.
type CacheProvider struct {
	Path string
}

var _ Provider = (*CacheProvider)(nil)

// Load implements Provider.
func (p *CacheProvider) Load(context.Context, Request) (*schema.Server, error) {
	if p.Path == "" {
		return nil, ErrConnectionMissing
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer f.Close()
	return LoadCache(f)
}
