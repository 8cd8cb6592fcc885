// Package gen emits Go data structs from a loaded relational schema.
//
// # Architecture
//
// One generation run follows this flow:
//
//	schema.Server (built once)
//	        ↓
//	   Settings snapshot + hook Dispatcher (per run)
//	        ↓
//	   builder: class names, fields, navigation members, enums, constructors
//	        ↓
//	   Engine traversal with hooks
//	        ↓
//	   Sink text, Output files, Writer
//
// # Traversal
//
// The engine visits the levels in a fixed order:
//
//	Server
//	└── Database
//	    ├── Tables → Table ...
//	    │   └── ComplexTypes → ComplexType ...
//	    ├── Views → View ...
//	    ├── Procedures → Procedure ...
//	    ├── Functions → Function ...
//	    └── TVPs → TVP ...
//
// Every level fires a Generating and a Generated hook. Synchronous listeners
// return an Action:
//
//   - Continue: proceed
//   - Skip: omit the node and its subtree (Generating only)
//   - Stop: abort the run; the server Generated hook still fires
//
// Element levels additionally fire a POCO hook carrying the text of the
// object, captured with the sink snapshot. It fires only when a listener is
// subscribed.
//
// Asynchronous listeners receive a copy of every event on a Queue and never
// influence the run.
//
// # Type strategies
//
// Column types resolve through a fixed chain of categories (bool, byte,
// short, int, long, float, decimal, date-time, string, bytes, guid). The
// first category the Dialect claims wins; otherwise the dialect may map an
// opaque type, and everything else becomes any. The dialects are registered
// by the sql subpackage:
//
//	import _ "github.com/syssam/pocogen/compiler/gen/sql"
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: invalid settings or options
//   - GenerationError: formatting and file output failures
//   - ObjectError: failures attached to one database object by a provider
//
// Objects carrying an error are rendered as a comment block listing the
// error chain, outermost first. Their siblings are unaffected.
//
// # Configuration
//
// Settings are plain values loaded from YAML or built with options:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithPackage("models"),
//	    gen.WithTarget("./models"),
//	    gen.WithFilePerObject(true),
//	)
//
// A run never reads the live Config; it works on Config.Snapshot.
package gen
