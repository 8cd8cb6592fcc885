package load

import (
	"context"

	"github.com/syssam/pocogen/schema"
)

// Request describes the source to load.
type Request struct {
	// DSN is the connection string or URL of a live database.
	DSN string
	// Dialect forces a dialect instead of detecting it from DSN.
	Dialect string
	// Schemas restricts loading to the named schemas. Empty loads all.
	Schemas []string
}

// Provider loads a schema model. Failures that concern a single object are
// attached to that object's error chain. A returned error means nothing could
// be loaded and wraps one of the sentinel errors of this package when the
// cause is known.
type Provider interface {
	Load(ctx context.Context, req Request) (*schema.Server, error)
}

// The ProviderFunc type is an adapter to allow the use of ordinary functions
// as providers.
type ProviderFunc func(context.Context, Request) (*schema.Server, error)

// Load calls f(ctx, req).
func (f ProviderFunc) Load(ctx context.Context, req Request) (*schema.Server, error) {
	return f(ctx, req)
}

// Static returns a provider that always returns srv.
func Static(srv *schema.Server) Provider {
	return ProviderFunc(func(context.Context, Request) (*schema.Server, error) {
		return srv, nil
	})
}
