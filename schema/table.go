package schema

type (
	// Table is a base table.
	Table struct {
		ObjectInfo
		// PrimaryKey of the table, nil if the table has none.
		PrimaryKey *Key
		// Indexes defined on the table, including unique constraints.
		Indexes []*Index
		// ForeignKeys declared on this table (this table is the foreign side).
		ForeignKeys []*ForeignKey
		// ComplexTypes groups the columns of this table that share a prefix.
		// Filled by DetectComplexTypes.
		ComplexTypes []*ComplexTypeTable
	}

	// View is a database view. Only its columns are known.
	View struct {
		ObjectInfo
	}

	// Procedure is a stored procedure. Columns holds the first result set.
	Procedure struct {
		ObjectInfo
		Parameters []*Parameter
	}

	// Function is a user-defined function. Columns holds the returned table
	// columns for table-valued functions and is empty for scalar functions.
	Function struct {
		ObjectInfo
		Parameters  []*Parameter
		TableValued bool
	}

	// TVP is a user-defined table type usable as a table-valued parameter.
	TVP struct {
		ObjectInfo
	}

	// Parameter of a procedure or function.
	Parameter struct {
		Name      string
		Ordinal   int
		DataType  string
		Length    int64
		Precision int
		Scale     int
		Nullable  bool
		Direction Direction
	}

	// Direction of a routine parameter.
	Direction uint8
)

// Parameter directions.
const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return "in"
	}
}

// NewTable returns a table with the given columns.
func NewTable(schemaName, name string, cols ...*Column) *Table {
	return &Table{ObjectInfo: ObjectInfo{Name: name, Schema: schemaName, Columns: cols}}
}

// NewView returns a view with the given columns.
func NewView(schemaName, name string, cols ...*Column) *View {
	return &View{ObjectInfo: ObjectInfo{Name: name, Schema: schemaName, Columns: cols}}
}

// NewProcedure returns a procedure with the given result columns.
func NewProcedure(schemaName, name string, cols ...*Column) *Procedure {
	return &Procedure{ObjectInfo: ObjectInfo{Name: name, Schema: schemaName, Columns: cols}}
}

// NewFunction returns a function. Functions with columns are table-valued.
func NewFunction(schemaName, name string, cols ...*Column) *Function {
	return &Function{ObjectInfo: ObjectInfo{Name: name, Schema: schemaName, Columns: cols}, TableValued: len(cols) > 0}
}

// NewTVP returns a table type with the given columns.
func NewTVP(schemaName, name string, cols ...*Column) *TVP {
	return &TVP{ObjectInfo: ObjectInfo{Name: name, Schema: schemaName, Columns: cols}}
}

// Kind implements Object.
func (*Table) Kind() Kind { return KindTable }

// Kind implements Object.
func (*View) Kind() Kind { return KindView }

// Kind implements Object.
func (*Procedure) Kind() Kind { return KindProcedure }

// Kind implements Object.
func (*Function) Kind() Kind { return KindFunction }

// Kind implements Object.
func (*TVP) Kind() Kind { return KindTVP }

// SetPrimaryKey marks the named columns as the primary key.
func (t *Table) SetPrimaryKey(name string, columns ...string) *Key {
	k := &Key{Name: name}
	for _, n := range columns {
		if c, ok := t.Column(n); ok {
			c.PrimaryKey = true
			k.Columns = append(k.Columns, c)
		}
	}
	t.PrimaryKey = k
	return k
}

// AddIndex adds an index over the named columns.
func (t *Table) AddIndex(name string, unique bool, columns ...string) *Index {
	idx := &Index{Name: name, Unique: unique}
	for _, n := range columns {
		if c, ok := t.Column(n); ok {
			idx.Columns = append(idx.Columns, c)
		}
	}
	t.Indexes = append(t.Indexes, idx)
	return idx
}

// AddForeignKey declares a foreign key from t to primary. Columns are given as
// alternating (foreign, primary) column names. Unknown names are skipped.
func (t *Table) AddForeignKey(name string, primary *Table, pairs ...string) *ForeignKey {
	fk := &ForeignKey{Name: name, Foreign: t, Primary: primary}
	for i := 0; i+1 < len(pairs); i += 2 {
		fc, ok1 := t.Column(pairs[i])
		pc, ok2 := primary.Column(pairs[i+1])
		if ok1 && ok2 {
			fk.Columns = append(fk.Columns, ColumnPair{Foreign: fc, Primary: pc})
		}
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return fk
}

// ForeignKeyFor returns the first foreign key of t that contains c as a
// foreign column.
func (t *Table) ForeignKeyFor(c *Column) (*ForeignKey, bool) {
	for _, fk := range t.ForeignKeys {
		for _, p := range fk.Columns {
			if p.Foreign == c {
				return fk, true
			}
		}
	}
	return nil, false
}

// ComplexTypeFor returns the complex type that groups column c, if any.
func (t *Table) ComplexTypeFor(c *Column) (*ComplexTypeTable, bool) {
	for _, ct := range t.ComplexTypes {
		for _, m := range ct.OwnerColumns(t) {
			if m == c {
				return ct, true
			}
		}
	}
	return nil, false
}

// IsUniqueSet reports whether cols exactly match the primary key or a
// unique index of t, in any order.
func (t *Table) IsUniqueSet(cols []*Column) bool {
	if t.PrimaryKey != nil && sameColumns(t.PrimaryKey.Columns, cols) {
		return true
	}
	for _, idx := range t.Indexes {
		if idx.Unique && sameColumns(idx.Columns, cols) {
			return true
		}
	}
	return false
}

// InParameters returns the input (and inout) parameters.
func (p *Procedure) InParameters() []*Parameter {
	var params []*Parameter
	for _, prm := range p.Parameters {
		if prm.Direction != DirOut {
			params = append(params, prm)
		}
	}
	return params
}

func sameColumns(a, b []*Column) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	seen := make(map[*Column]struct{}, len(a))
	for _, c := range a {
		seen[c] = struct{}{}
	}
	for _, c := range b {
		if _, ok := seen[c]; !ok {
			return false
		}
	}
	return true
}
