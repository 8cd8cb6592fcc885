// Package graph resolves which tables are reachable from the tables selected
// for generation.
//
// A generated struct may reference other tables through navigation
// properties. Those tables must be known to the generator even when the user
// did not select them, so every build computes the accessible set of a
// database: the tables transitively linked to the included tables, minus the
// included tables themselves.
//
// # Edges
//
// Three kinds of edges are followed, in both directions where it applies:
//
//   - Foreign key, foreign → primary: Orders(CustomerID) reaches Customers.
//   - Foreign key, primary → foreign: Customers is reached back by every table
//     that references it.
//   - Complex type: a table reaches every other table that shares one of its
//     grouped-column types.
//
// # Usage
//
//	for _, t := range db.Tables {
//	    t.Included = selected(t)
//	}
//	accessible := graph.Resolve(db)
//	if accessible != nil {
//	    // db.Accessible is set as well.
//	}
//
// The closure is idempotent, never contains a seed table, and terminates on
// cyclic foreign keys since every table is expanded at most once.
package graph
