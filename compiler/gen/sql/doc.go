// Package sql registers the type strategies of the supported SQL dialects
// with the gen package.
//
// Each dialect is a predicate table: for every category of gen.Chain it
// names the column types the category claims. The first matching category
// wins, so a mysql tinyint(1) resolves to bool before byte is tried.
//
//	┌──────────────┬──────────────────────────────────────────────┐
//	│ Dialect      │ Notes                                        │
//	├──────────────┼──────────────────────────────────────────────┤
//	│ sqlserver    │ tinyint is unsigned, money is decimal        │
//	│ mysql        │ unsigned modifier, tinyint(1) and bit(1)     │
//	│ postgres     │ arrays map to lib/pq scanners                │
//	│ sqlite3      │ affinity rules on the declared type          │
//	└──────────────┴──────────────────────────────────────────────┘
//
// Importing the package for its side effects is enough:
//
//	import _ "github.com/syssam/pocogen/compiler/gen/sql"
package sql
