// Package schema holds the in-memory relational model consumed by the
// generator.
//
// The model is passive data. A metadata provider (see compiler/load) builds
// it once per build phase and the generator reads it on every generation
// pass:
//
//	Server
//	└── Database
//	    ├── Tables (columns, keys, indexes, foreign keys, complex types)
//	    ├── Views
//	    ├── Procedures
//	    ├── Functions
//	    └── TVPs
//
// Every table, view, routine and table type implements [Object]. Objects are
// compared by pointer identity, so the same *Table must be used wherever a
// table is referenced (foreign keys, complex types, inclusion sets).
//
// # Building a model by hand
//
//	db := schema.NewDatabase("shop")
//	orders := schema.NewTable("dbo", "Orders",
//	    schema.NewColumn("OrderID", "int"),
//	    schema.NewColumn("CustomerID", "int"),
//	)
//	customers := schema.NewTable("dbo", "Customers", schema.NewColumn("CustomerID", "int"))
//	db.Add(orders, customers)
//	orders.AddForeignKey("FK_Orders_Customers", customers, "CustomerID", "CustomerID")
//
// # Derived data
//
// Two kinds of data are derived rather than loaded: the complex types found
// by [DetectComplexTypes], and the accessible-table annotation stored on
// [Database.Accessible] by the graph package. Navigation properties are not
// stored here at all; the generator recomputes them on every pass.
package schema
