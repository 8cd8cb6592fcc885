// Package naming turns database identifiers into Go identifiers.
//
// All functions are pure and safe for concurrent use. The generator applies
// them in a fixed order: CleanName first, then the optional inflection
// (Singularize / Pluralize), then the casing (TransformName or GoName), and
// finally Disambiguate over the relationship names of one struct.
//
//	naming.CleanName("Order Date")       // "Order_Date"
//	naming.Singularize("Employees")      // "Employee"
//	naming.GoName("customer_id")         // "CustomerID"
//	naming.IsActionName("CreatedDate")   // true
package naming
