package schema

type (
	// Key is a primary or unique key.
	Key struct {
		Name    string
		Columns []*Column
	}

	// Index is a table index. Unique indexes double as unique constraints.
	Index struct {
		Name    string
		Unique  bool
		Columns []*Column
	}

	// ForeignKey links exactly one foreign table to one primary table.
	ForeignKey struct {
		// Name of the constraint.
		Name string
		// Foreign is the table holding the referencing columns.
		Foreign *Table
		// Primary is the referenced table.
		Primary *Table
		// Columns holds the ordered column pairs.
		Columns []ColumnPair
	}

	// ColumnPair is one (foreign, primary) column mapping of a foreign key.
	ColumnPair struct {
		Foreign *Column
		Primary *Column
	}
)

// ForeignColumns returns the referencing columns in key order.
func (fk *ForeignKey) ForeignColumns() []*Column {
	cols := make([]*Column, len(fk.Columns))
	for i, p := range fk.Columns {
		cols[i] = p.Foreign
	}
	return cols
}

// PrimaryColumns returns the referenced columns in key order.
func (fk *ForeignKey) PrimaryColumns() []*Column {
	cols := make([]*Column, len(fk.Columns))
	for i, p := range fk.Columns {
		cols[i] = p.Primary
	}
	return cols
}

// IsOneToOne reports whether the referencing columns are themselves unique
// in the foreign table, making the inverse side a single reference.
func (fk *ForeignKey) IsOneToOne() bool {
	return fk.Foreign.IsUniqueSet(fk.ForeignColumns())
}

// IsOptional reports whether every referencing column is nullable.
func (fk *ForeignKey) IsOptional() bool {
	for _, p := range fk.Columns {
		if !p.Foreign.Nullable {
			return false
		}
	}
	return len(fk.Columns) > 0
}

// IsSelfReference reports whether the key references its own table.
func (fk *ForeignKey) IsSelfReference() bool { return fk.Foreign == fk.Primary }

// IsJoinTable reports whether t is a pure many-to-many join table: exactly
// two foreign keys, every column takes part in one of them, and the primary
// key spans all columns.
func IsJoinTable(t *Table) bool {
	if len(t.ForeignKeys) != 2 || t.PrimaryKey == nil || len(t.Columns) == 0 {
		return false
	}
	if len(t.PrimaryKey.Columns) != len(t.Columns) {
		return false
	}
	inKey := make(map[*Column]struct{})
	for _, fk := range t.ForeignKeys {
		for _, p := range fk.Columns {
			inKey[p.Foreign] = struct{}{}
		}
	}
	for _, c := range t.Columns {
		if _, ok := inKey[c]; !ok {
			return false
		}
	}
	return true
}
