package schema

import "strings"

// Column describes one column of a table, view, routine result or table type.
type Column struct {
	// Name of the column as stored in the database.
	Name string
	// Ordinal position, starting at 1.
	Ordinal int
	// DataType is the raw dialect type name, for example "nvarchar",
	// "int unsigned" or "character varying". Length and precision are
	// kept in their own fields.
	DataType string
	// Length of character and binary types. -1 means max.
	Length int64
	// Precision and Scale of numeric types.
	Precision int
	Scale     int
	// Nullable reports whether the column accepts NULL.
	Nullable bool
	// Identity reports an auto-increment / identity / serial column.
	Identity bool
	// Computed reports a generated (computed) column.
	Computed bool
	// PrimaryKey reports that the column is part of the primary key.
	PrimaryKey bool
	// Default holds the raw default expression as stored in the catalog,
	// nil if the column has no default.
	Default *string
	// EnumValues holds the allowed values of enum and set columns.
	EnumValues []string
	// Set reports a set (flag) column; EnumValues holds its members.
	Set bool
	// Comment (description) attached to the column.
	Comment string

	owner Object
}

// NewColumn returns a non-nullable column of the given raw type.
func NewColumn(name, dataType string) *Column {
	return &Column{Name: name, DataType: dataType}
}

// Null marks the column as nullable and returns it.
func (c *Column) Null() *Column {
	c.Nullable = true
	return c
}

// WithDefault sets the raw default expression and returns the column.
func (c *Column) WithDefault(expr string) *Column {
	c.Default = &expr
	return c
}

// WithEnum sets the enum values and returns the column.
func (c *Column) WithEnum(values ...string) *Column {
	c.EnumValues = values
	return c
}

// Owner returns the object the column belongs to.
func (c *Column) Owner() Object { return c.owner }

// HasDefault reports whether the column has a default expression.
func (c *Column) HasDefault() bool {
	return c.Default != nil && strings.TrimSpace(*c.Default) != ""
}

// IsEnum reports whether the column is an enum or set column.
func (c *Column) IsEnum() bool { return len(c.EnumValues) > 0 }

// BaseType returns the lower-cased data type without any length or
// precision suffix, e.g. "varchar" for "VARCHAR(20)".
func (c *Column) BaseType() string {
	t := strings.ToLower(strings.TrimSpace(c.DataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t[i:], ')'); j >= 0 {
			rest = t[i+j+1:]
		}
		t = strings.TrimSpace(t[:i] + rest)
	}
	return strings.Join(strings.Fields(t), " ")
}
