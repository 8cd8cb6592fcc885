// Package compiler is the orchestration surface of pocogen.
//
// A Generator works in two phases:
//
//	g, err := compiler.New(nil, compiler.WithSettingsFile("pocogen.yaml"))
//	if err != nil {
//		return err
//	}
//	defer g.Close()
//	if res := g.Build(ctx); !res.Succeeded() {
//		return g.Err()
//	}
//	var sink gen.BufferSink
//	res := g.Generate(ctx, &sink)
//
// Build loads the schema once. Generate may be called again with changed
// settings or hooks and never reloads the schema.
package compiler
