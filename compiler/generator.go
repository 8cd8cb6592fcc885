package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/syssam/pocogen/compiler/gen"
	_ "github.com/syssam/pocogen/compiler/gen/sql"
	"github.com/syssam/pocogen/compiler/load"
	"github.com/syssam/pocogen/graph"
	"github.com/syssam/pocogen/schema"
)

// Generator is the public entry point. Build loads a schema once; Generate
// may then run any number of times with different settings and hooks
// against the built schema.
//
// Build and Generate never panic and never return errors: failures are
// reported as a Result and the cause is kept for Err. Calls to Build and
// Generate are serialized; listeners may use every other method but must not
// call Build, Generate or Run.
type Generator struct {
	provider load.Provider
	config   *gen.Config
	hooks    *gen.Hooks
	queue    *gen.Queue
	log      *slog.Logger

	run sync.Mutex // serializes Build and Generate

	mu  sync.Mutex // guards the fields below
	srv *schema.Server
	out *gen.Output
	err error
}

// New returns a generator that loads its schema with p. A nil provider
// selects one from the connection settings at every Build: a schema cache,
// a schema file or a live database, in that order.
func New(p load.Provider, opts ...Option) (*Generator, error) {
	g := &Generator{
		provider: p,
		config:   gen.MustNewConfig(),
		hooks:    gen.NewHooks(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.queue = gen.NewQueue(g.log)
	return g, nil
}

// MustNew is like New but panics if an option fails.
func MustNew(p load.Provider, opts ...Option) *Generator {
	g, err := New(p, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Config returns the live settings. Changes apply to the next Generate.
func (g *Generator) Config() *gen.Config { return g.config }

// Hooks returns the live subscriptions. Changes apply to the next Generate.
func (g *Generator) Hooks() *gen.Hooks { return g.hooks }

// Err returns the cause of the last failed Build or Generate, or nil if the
// last call succeeded.
func (g *Generator) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Server returns the built schema, or nil before a successful Build.
func (g *Generator) Server() *schema.Server {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.srv
}

// Output returns the output of the last successful Generate.
func (g *Generator) Output() *gen.Output {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.out
}

// Reset restores the default settings and drops the built schema. Hook
// subscriptions are kept.
func (g *Generator) Reset() {
	g.config.Reset()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.srv, g.out, g.err = nil, nil, nil
}

// Drain waits until every queued async listener has run.
func (g *Generator) Drain() { g.queue.Drain() }

// Close drains the async listener queue and stops its worker.
func (g *Generator) Close() error {
	g.queue.Close()
	return nil
}

// =============================================================================
// Build
// =============================================================================

// Build validates the connection, loads the schema, detects complex types,
// marks the included objects and computes the accessible tables.
func (g *Generator) Build(ctx context.Context) (res Result) {
	g.run.Lock()
	defer g.run.Unlock()
	g.mu.Lock()
	g.srv, g.out, g.err = nil, nil, nil
	g.mu.Unlock()
	defer g.guard("build", &res)

	s := g.config.Snapshot()
	p := g.provider
	if p == nil {
		p = providerFor(&s.Connection, g.log)
	}
	srv, err := p.Load(ctx, load.Request{
		DSN:     s.Connection.DSN,
		Dialect: s.Connection.Dialect,
		Schemas: s.Connection.Schemas,
	})
	if err != nil {
		return g.fail("build", err)
	}
	if srv == nil {
		return g.fail("build", fmt.Errorf("provider %T returned no schema", p))
	}
	if s.ComplexTypes.Enabled {
		for _, db := range srv.Databases {
			for _, ct := range schema.DetectComplexTypes(db, s.ComplexTypes.Delimiter) {
				if err := schema.ValidateComplexType(ct); err != nil {
					ct.Err = err
				}
			}
		}
	}
	if newSelector(&s.Objects).mark(srv) == 0 {
		return g.fail("build", ErrNoObjectsIncluded)
	}
	failed := 0
	for _, db := range srv.Databases {
		accessible := graph.Resolve(db)
		for _, o := range db.Objects() {
			if info := o.Info(); info.Err != nil {
				failed++
				g.log.Warn("object failed to load",
					"database", db.Name,
					"object", info.QualifiedName(),
					"kind", o.Kind().String(),
					"error", info.Err,
				)
			}
		}
		g.log.Info("database built",
			"database", db.Name,
			"tables", len(db.Tables),
			"included", len(db.IncludedTables()),
			"accessible", len(accessible),
			"views", len(db.Views),
			"procedures", len(db.Procedures),
			"functions", len(db.Functions),
			"tvps", len(db.TVPs),
		)
	}
	g.log.Info("schema built", "server", srv.Name, "dialect", string(srv.Dialect), "databases", len(srv.Databases))
	g.mu.Lock()
	g.srv = srv
	g.mu.Unlock()
	if failed > 0 {
		return Warning
	}
	return Ok
}

func providerFor(c *gen.ConnectionSettings, log *slog.Logger) load.Provider {
	switch {
	case c.Cache != "":
		return &load.CacheProvider{Path: c.Cache}
	case c.SchemaFile != "":
		return &load.FileProvider{Path: c.SchemaFile}
	default:
		return &load.AtlasProvider{Log: log}
	}
}

// =============================================================================
// Generate
// =============================================================================

// Generate runs one traversal of the built schema into sink and writes the
// output files when a target is configured. The run works on snapshots of
// the settings and hooks taken at the start of the call. The generator is
// not locked while the traversal runs, so listeners may read its state and
// change the live settings and hooks for the next call.
func (g *Generator) Generate(ctx context.Context, sink gen.Sink) (res Result) {
	g.run.Lock()
	defer g.run.Unlock()
	g.mu.Lock()
	srv := g.srv
	g.err = nil
	g.mu.Unlock()
	defer g.guard("generate", &res)

	if srv == nil {
		return g.fail("generate", ErrNotBuilt)
	}
	s := g.config.Snapshot()
	out, err := gen.NewEngine(s, g.hooks.Snapshot(g.queue), g.log).Run(srv, sink)
	if err != nil {
		return g.fail("generate", err)
	}
	g.mu.Lock()
	g.out = out
	g.mu.Unlock()
	if s.Output.Target != "" {
		if err := gen.WriteOutput(ctx, s, out); err != nil {
			return g.fail("generate", err)
		}
	}
	g.log.Info("schema generated",
		"files", len(out.Files),
		"warnings", out.Warnings,
		"stopped", out.Stopped,
	)
	if out.Warnings > 0 {
		return Warning
	}
	return Ok
}

// Run builds and then generates. The worse of both results is returned.
func (g *Generator) Run(ctx context.Context, sink gen.Sink) Result {
	res := g.Build(ctx)
	if !res.Succeeded() {
		return res
	}
	if gres := g.Generate(ctx, sink); gres != Ok {
		return gres
	}
	return res
}

// fail stores err and returns its result code. Errors without a dedicated
// code are wrapped in an InternalError.
func (g *Generator) fail(phase string, err error) Result {
	res := resultOf(err)
	if res == UnexpectedError {
		err = &InternalError{Phase: phase, Cause: err}
		g.log.Error("unexpected error", "phase", phase, "error", err)
	}
	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
	return res
}

// guard turns a panic of the current phase into UnexpectedError. A panic
// during Build drops the partially built schema.
func (g *Generator) guard(phase string, res *Result) {
	if v := recover(); v != nil {
		err := &InternalError{Phase: phase, Cause: fmt.Errorf("panic: %v", v), Stack: debug.Stack()}
		g.log.Error("unexpected panic", "phase", phase, "panic", v)
		g.mu.Lock()
		g.err = err
		if phase == "build" {
			g.srv = nil
		}
		g.mu.Unlock()
		*res = UnexpectedError
	}
}
