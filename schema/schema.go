package schema

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of an Object.
type Kind uint8

// Object kinds, in traversal order.
const (
	KindTable Kind = iota + 1
	KindComplexType
	KindView
	KindProcedure
	KindFunction
	KindTVP
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindComplexType:
		return "complex type"
	case KindView:
		return "view"
	case KindProcedure:
		return "procedure"
	case KindFunction:
		return "function"
	case KindTVP:
		return "tvp"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

type (
	// Server is the root of a loaded model.
	Server struct {
		// Name of the server (host, file name or a label).
		Name string
		// Version reported by the server, if known.
		Version string
		// Dialect of the server.
		Dialect Dialect
		// Capabilities of the dialect. Consulted by naming and type mapping.
		Capabilities Capabilities
		// Databases in load order.
		Databases []*Database
	}

	// Database owns the objects loaded from one database (or catalog).
	Database struct {
		// Name of the database.
		Name string
		// Tables, Views, Procedures, Functions and TVPs hold the loaded
		// objects in provider order. Use Add to populate them.
		Tables     []*Table
		Views      []*View
		Procedures []*Procedure
		Functions  []*Function
		TVPs       []*TVP
		// Accessible holds the tables reachable from the included tables
		// minus the included tables themselves. It is nil when there are
		// none, and is recomputed once per build.
		Accessible []*Table

		server  *Server
		objects map[Object]struct{}
	}

	// Object is implemented by every table-like database object.
	Object interface {
		// Kind returns the object variant.
		Kind() Kind
		// Info returns the attributes shared by all variants.
		Info() *ObjectInfo
	}

	// ObjectInfo holds the attributes shared by every Object.
	ObjectInfo struct {
		// Name of the object in the database.
		Name string
		// Schema (owner) of the object. Empty for dialects without schemas.
		Schema string
		// Columns in ordinal order. For routines these are the result columns.
		Columns []*Column
		// Comment (description) attached to the object.
		Comment string
		// Err carries introspection failures for this object. The chain is
		// rendered inline instead of the object body.
		Err error
		// Included reports whether the object was selected for generation
		// during the last build.
		Included bool

		db *Database
	}
)

// NewServer returns a server for the given dialect with its capabilities set.
func NewServer(name string, d Dialect) *Server {
	return &Server{Name: name, Dialect: d, Capabilities: d.Capabilities()}
}

// Add appends databases to the server and sets their owner.
func (s *Server) Add(dbs ...*Database) {
	for _, db := range dbs {
		db.server = s
		s.Databases = append(s.Databases, db)
	}
}

// Database returns the database with the given name.
func (s *Server) Database(name string) (*Database, bool) {
	for _, db := range s.Databases {
		if db.Name == name {
			return db, true
		}
	}
	return nil, false
}

// NewDatabase returns an empty database.
func NewDatabase(name string) *Database {
	return &Database{Name: name}
}

// Server returns the owning server, or nil if the database was not added to one.
func (d *Database) Server() *Server { return d.server }

// Add appends objects to the collection of their kind and sets their owner.
// Objects that are already part of the database are ignored, which keeps the
// collections free of duplicates.
func (d *Database) Add(objs ...Object) {
	if d.objects == nil {
		d.objects = make(map[Object]struct{})
	}
	for _, o := range objs {
		if _, ok := d.objects[o]; ok {
			continue
		}
		d.objects[o] = struct{}{}
		info := o.Info()
		info.db = d
		for i, c := range info.Columns {
			c.owner = o
			if c.Ordinal == 0 {
				c.Ordinal = i + 1
			}
		}
		switch o := o.(type) {
		case *Table:
			d.Tables = append(d.Tables, o)
		case *View:
			d.Views = append(d.Views, o)
		case *Procedure:
			d.Procedures = append(d.Procedures, o)
		case *Function:
			d.Functions = append(d.Functions, o)
		case *TVP:
			d.TVPs = append(d.TVPs, o)
		}
	}
}

// Table returns the table with the given schema and name. An empty schema
// matches any schema.
func (d *Database) Table(schemaName, name string) (*Table, bool) {
	for _, t := range d.Tables {
		if t.Name == name && (schemaName == "" || t.Schema == schemaName) {
			return t, true
		}
	}
	return nil, false
}

// Lookup returns the object with the given schema and name, searching every
// kind in traversal order. An empty schema matches any schema.
func (d *Database) Lookup(schemaName, name string) (Object, bool) {
	for _, o := range d.Objects() {
		info := o.Info()
		if info.Name == name && (schemaName == "" || info.Schema == schemaName) {
			return o, true
		}
	}
	return nil, false
}

// Objects returns every object of the database in traversal order.
func (d *Database) Objects() []Object {
	objs := make([]Object, 0, len(d.Tables)+len(d.Views)+len(d.Procedures)+len(d.Functions)+len(d.TVPs))
	for _, t := range d.Tables {
		objs = append(objs, t)
	}
	for _, v := range d.Views {
		objs = append(objs, v)
	}
	for _, p := range d.Procedures {
		objs = append(objs, p)
	}
	for _, f := range d.Functions {
		objs = append(objs, f)
	}
	for _, t := range d.TVPs {
		objs = append(objs, t)
	}
	return objs
}

// IncludedTables returns the tables marked as included, in database order.
func (d *Database) IncludedTables() []*Table {
	var tables []*Table
	for _, t := range d.Tables {
		if t.Included {
			tables = append(tables, t)
		}
	}
	return tables
}

// IsAccessible reports whether t is part of the accessible-table annotation.
func (d *Database) IsAccessible(t *Table) bool {
	for _, a := range d.Accessible {
		if a == t {
			return true
		}
	}
	return false
}

// Info implements Object.
func (o *ObjectInfo) Info() *ObjectInfo { return o }

// Database returns the owning database.
func (o *ObjectInfo) Database() *Database { return o.db }

// QualifiedName returns "schema.name", or the bare name when there is no schema.
func (o *ObjectInfo) QualifiedName() string {
	if o.Schema == "" {
		return o.Name
	}
	return o.Schema + "." + o.Name
}

// Column returns the column with the given name (case-insensitive).
func (o *ObjectInfo) Column(name string) (*Column, bool) {
	for _, c := range o.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

// HasError reports whether the object carries an introspection error.
func (o *ObjectInfo) HasError() bool { return o.Err != nil }
