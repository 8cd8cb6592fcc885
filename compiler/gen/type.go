package gen

import (
	"strings"

	"github.com/syssam/pocogen/schema"
)

// Import paths referenced by generated code.
const (
	pkgSQL     = "database/sql"
	pkgTime    = "time"
	pkgUUID    = "github.com/google/uuid"
	pkgDecimal = "github.com/shopspring/decimal"
)

// TypeRef is the Go type generated for a column or parameter.
type TypeRef struct {
	// Name is the type expression used in the struct, e.g. "*time.Time".
	Name string
	// Base is the type without pointer or null wrapper, e.g. "time.Time".
	Base string
	// Import is the package path Name refers to. Empty for builtin and
	// local types.
	Import string
	// Nillable reports whether the zero value of Name is nil.
	Nillable bool
	// Pointer reports that Name is Base behind a pointer.
	Pointer bool
	// Null is the value field of a sql.Null style wrapper ("Int32" for
	// sql.NullInt32), empty when Name is not such a wrapper.
	Null string
	// Category the column was resolved to. Zero for opaque and unknown types.
	Category Category
}

// Any is the fallback for columns no strategy resolves.
var Any = TypeRef{Name: "any", Base: "any", Nillable: true}

// baseTypes maps a category to its non-nullable Go type.
var baseTypes = map[Category]TypeRef{
	CategoryBool:     {Name: "bool"},
	CategoryByte:     {Name: "int8"},
	CategoryShort:    {Name: "int16"},
	CategoryInt:      {Name: "int32"},
	CategoryLong:     {Name: "int64"},
	CategoryFloat:    {Name: "float64"},
	CategoryDecimal:  {Name: "float64"},
	CategoryDateTime: {Name: "time.Time", Import: pkgTime},
	CategoryString:   {Name: "string"},
	CategoryBytes:    {Name: "[]byte", Nillable: true},
	CategoryGUID:     {Name: "uuid.UUID", Import: pkgUUID},
}

var unsignedTypes = map[Category]string{
	CategoryByte:  "uint8",
	CategoryShort: "uint16",
	CategoryInt:   "uint32",
	CategoryLong:  "uint64",
}

// nullTypes maps a base type to its database/sql style null wrapper.
var nullTypes = map[string]TypeRef{
	"bool":            {Name: "sql.NullBool", Import: pkgSQL, Null: "Bool"},
	"uint8":           {Name: "sql.NullByte", Import: pkgSQL, Null: "Byte"},
	"int16":           {Name: "sql.NullInt16", Import: pkgSQL, Null: "Int16"},
	"int32":           {Name: "sql.NullInt32", Import: pkgSQL, Null: "Int32"},
	"int64":           {Name: "sql.NullInt64", Import: pkgSQL, Null: "Int64"},
	"float64":         {Name: "sql.NullFloat64", Import: pkgSQL, Null: "Float64"},
	"string":          {Name: "sql.NullString", Import: pkgSQL, Null: "String"},
	"time.Time":       {Name: "sql.NullTime", Import: pkgSQL, Null: "Time"},
	"uuid.UUID":       {Name: "uuid.NullUUID", Import: pkgUUID, Null: "UUID"},
	"decimal.Decimal": {Name: "decimal.NullDecimal", Import: pkgDecimal, Null: "Decimal"},
}

// typeMapper resolves columns to Go types with one dialect and one set of
// POCO settings.
type typeMapper struct {
	dialect Dialect
	poco    *POCOSettings
}

// column resolves c. enumType names the generated enum type of c when enums
// are typed; it is ignored for columns without enum values.
func (m *typeMapper) column(c *schema.Column, enumType string) TypeRef {
	var t TypeRef
	switch {
	case c.IsEnum() && m.poco.Enums == EnumTyped && enumType != "":
		t = TypeRef{Name: enumType, Category: CategoryString}
	case c.IsEnum():
		t = TypeRef{Name: "string", Category: CategoryString}
	default:
		t = m.base(c)
	}
	t.Base = t.Name
	if !c.Nullable || t.Nillable {
		return t
	}
	return m.nullable(t)
}

// base walks the strategy chain for c.
func (m *typeMapper) base(c *schema.Column) TypeRef {
	cat := Classify(m.dialect, c)
	if cat == 0 {
		if t, ok := m.dialect.Opaque(c); ok {
			return t
		}
		return Any
	}
	t := baseTypes[cat]
	t.Category = cat
	if name, ok := unsignedTypes[cat]; ok && m.dialect.Unsigned(c) {
		t.Name = name
	}
	if cat == CategoryDecimal && m.poco.Decimal == DecimalExact {
		t.Name, t.Import = "decimal.Decimal", pkgDecimal
	}
	return t
}

func (m *typeMapper) nullable(t TypeRef) TypeRef {
	if m.poco.Nullable == NullSQL {
		n, ok := nullTypes[t.Base]
		if !ok {
			n = TypeRef{Name: "sql.Null[" + t.Base + "]", Import: pkgSQL, Null: "V"}
		}
		n.Base, n.Category = t.Base, t.Category
		return n
	}
	t.Name = "*" + t.Base
	t.Pointer = true
	t.Nillable = true
	return t
}

// parameterColumn returns a column standing for a routine parameter, so
// parameters resolve through the column rules.
func parameterColumn(p *schema.Parameter) *schema.Column {
	return &schema.Column{
		Name:      strings.TrimLeft(p.Name, "@:$"),
		Ordinal:   p.Ordinal,
		DataType:  p.DataType,
		Length:    p.Length,
		Precision: p.Precision,
		Scale:     p.Scale,
		Nullable:  p.Nullable,
	}
}

// imports returns the packages the type refers to.
func (t TypeRef) imports() []string {
	if t.Import == "" {
		return nil
	}
	return []string{t.Import}
}
