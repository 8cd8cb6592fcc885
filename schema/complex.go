package schema

import (
	"fmt"
	"strings"
)

// ComplexTypeTable groups columns that share a name prefix into one nested
// type. The same ComplexTypeTable is shared by every table whose group has
// the same prefix and the same member names.
type ComplexTypeTable struct {
	ObjectInfo
	// Delimiter separating the prefix from the member name.
	Delimiter string
	// Members holds the member (suffix) names in column order.
	Members []string
	// Owners holds the tables that contain the group, in detection order.
	Owners []*Table

	owned map[*Table][]*Column
}

// Kind implements Object.
func (*ComplexTypeTable) Kind() Kind { return KindComplexType }

// OwnerColumns returns the columns of t grouped by ct, in member order.
func (ct *ComplexTypeTable) OwnerColumns(t *Table) []*Column {
	return ct.owned[t]
}

// Representative returns the column that stands for the whole group in t:
// the first grouped column in ordinal order.
func (ct *ComplexTypeTable) Representative(t *Table) *Column {
	if cols := ct.owned[t]; len(cols) > 0 {
		return cols[0]
	}
	return nil
}

// IsRepresentative reports whether c is the representative column of a
// complex type of its owning table.
func IsRepresentative(c *Column) bool {
	t, ok := c.Owner().(*Table)
	if !ok {
		return false
	}
	ct, ok := t.ComplexTypeFor(c)
	return ok && ct.Representative(t) == c
}

// DetectComplexTypes finds column groups in every table of db and attaches
// them to their tables. A group is two or more columns whose names share the
// text before the first delimiter exactly, where that prefix is not itself a column
// name. Groups with equal prefix and member names share one ComplexTypeTable.
// Previously detected complex types are discarded.
func DetectComplexTypes(db *Database, delimiter string) []*ComplexTypeTable {
	for _, t := range db.Tables {
		t.ComplexTypes = nil
	}
	if delimiter == "" {
		return nil
	}
	var (
		types  []*ComplexTypeTable
		byName = make(map[string]*ComplexTypeTable)
	)
	for _, t := range db.Tables {
		for _, g := range columnGroups(t, delimiter) {
			key := g.prefix + "\x00" + strings.Join(g.members, "\x00")
			ct, ok := byName[key]
			if !ok {
				ct = &ComplexTypeTable{
					ObjectInfo: ObjectInfo{Name: g.prefix, Schema: t.Schema, db: db},
					Delimiter:  delimiter,
					Members:    g.members,
					owned:      make(map[*Table][]*Column),
				}
				for i, m := range g.members {
					c := *g.columns[i]
					c.Name = m
					c.PrimaryKey = false
					c.Identity = false
					c.owner = ct
					ct.Columns = append(ct.Columns, &c)
				}
				byName[key] = ct
				types = append(types, ct)
			}
			ct.Owners = append(ct.Owners, t)
			ct.owned[t] = g.columns
			t.ComplexTypes = append(t.ComplexTypes, ct)
		}
	}
	return types
}

// ValidateComplexType checks that every owned column of ct starts with the
// grouping prefix followed by the delimiter and the member name.
func ValidateComplexType(ct *ComplexTypeTable) error {
	for _, t := range ct.Owners {
		cols := ct.owned[t]
		if len(cols) != len(ct.Members) {
			return fmt.Errorf("schema: complex type %q: table %s has %d columns, want %d", ct.Name, t.QualifiedName(), len(cols), len(ct.Members))
		}
		for i, c := range cols {
			if want := ct.Name + ct.Delimiter + ct.Members[i]; c.Name != want {
				return fmt.Errorf("schema: complex type %q: column %s.%s does not match %q", ct.Name, t.QualifiedName(), c.Name, want)
			}
		}
	}
	return nil
}

type columnGroup struct {
	prefix  string
	members []string
	columns []*Column
}

func columnGroups(t *Table, delimiter string) []columnGroup {
	var (
		groups []columnGroup
		index  = make(map[string]int)
	)
	for _, c := range t.Columns {
		i := strings.Index(c.Name, delimiter)
		if i <= 0 || i+len(delimiter) >= len(c.Name) {
			continue
		}
		prefix, member := c.Name[:i], c.Name[i+len(delimiter):]
		pos, ok := index[prefix]
		if !ok {
			pos = len(groups)
			index[prefix] = pos
			groups = append(groups, columnGroup{prefix: prefix})
		}
		groups[pos].members = append(groups[pos].members, member)
		groups[pos].columns = append(groups[pos].columns, c)
	}
	valid := groups[:0]
	for _, g := range groups {
		if len(g.columns) < 2 {
			continue
		}
		if _, clash := t.Column(g.prefix); clash {
			continue
		}
		valid = append(valid, g)
	}
	return valid
}
