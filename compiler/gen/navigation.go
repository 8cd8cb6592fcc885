package gen

import (
	"github.com/syssam/pocogen/naming"
	"github.com/syssam/pocogen/schema"
)

// Navigation is a relationship member derived from a foreign key. It is
// recomputed on every run because its visibility depends on settings.
type Navigation struct {
	// Name of the member.
	Name string
	// Target is the class name of the related struct.
	Target string
	// Many reports a collection ([]*Target) instead of a reference (*Target).
	Many bool
	// Key is the foreign key the member follows.
	Key *schema.ForeignKey
	// Through is the join table of a direct many-to-many collection.
	Through *schema.Table
	Tag     string
}

// TypeName returns the Go type of the member.
func (n *Navigation) TypeName() string {
	if n.Many {
		return "[]*" + n.Target
	}
	return "*" + n.Target
}

// Doc describes the foreign key behind the member.
func (n *Navigation) Doc() string {
	if n.Through != nil {
		return n.Name + " are the " + n.Target + " rows linked through " + n.Through.QualifiedName() + "."
	}
	if n.Many {
		return n.Name + " are the " + n.Target + " rows referencing this row through " + n.Key.Name + "."
	}
	return n.Name + " is the " + n.Target + " row referenced through " + n.Key.Name + "."
}

// navigationTarget reports whether t may be referenced by a navigation
// member: it is generated or reachable from a generated table.
func navigationTarget(t *schema.Table) bool {
	return t.Included || t.Database() != nil && t.Database().IsAccessible(t)
}

// navigations returns the relationship members of t. reserved holds the
// member names already taken by fields.
func (b *builder) navigations(t *schema.Table, reserved []string) []*Navigation {
	var (
		navs  []*Navigation
		cands []naming.Candidate
	)
	add := func(n *Navigation, fk *schema.ForeignKey) {
		var col string
		if cols := fk.ForeignColumns(); len(cols) > 0 {
			col = cols[len(cols)-1].Name
		}
		navs = append(navs, n)
		cands = append(cands, naming.Candidate{Name: n.Name, Column: col})
	}
	// References: t is the foreign side.
	for _, fk := range t.ForeignKeys {
		if fk.Primary == nil || !navigationTarget(fk.Primary) {
			continue
		}
		target := b.classes[fk.Primary]
		add(&Navigation{Name: target, Target: target, Key: fk}, fk)
	}
	// Collections: t is the primary side.
	db := t.Database()
	if db == nil {
		return nil
	}
	for _, r := range db.Tables {
		for _, fk := range r.ForeignKeys {
			if fk.Primary != t {
				continue
			}
			if !b.settings.Navigation.JoinTables && schema.IsJoinTable(r) {
				other := otherKey(r, fk)
				if other == nil || other.Primary == nil || !navigationTarget(other.Primary) {
					continue
				}
				target := b.classes[other.Primary]
				add(&Navigation{Name: b.plural(target), Target: target, Many: true, Key: other, Through: r}, other)
				continue
			}
			if !navigationTarget(r) {
				continue
			}
			target := b.classes[r]
			if fk.IsOneToOne() {
				add(&Navigation{Name: target, Target: target, Key: fk}, fk)
				continue
			}
			add(&Navigation{Name: b.plural(target), Target: target, Many: true, Key: fk}, fk)
		}
	}
	for i, name := range naming.Disambiguate(cands, reserved...) {
		navs[i].Name = name
	}
	return navs
}

func (b *builder) plural(class string) string {
	if b.settings.Navigation.Pluralize {
		return naming.Pluralize(class)
	}
	return class
}

// otherKey returns the foreign key of join table j that is not fk.
func otherKey(j *schema.Table, fk *schema.ForeignKey) *schema.ForeignKey {
	for _, k := range j.ForeignKeys {
		if k != fk {
			return k
		}
	}
	return nil
}
