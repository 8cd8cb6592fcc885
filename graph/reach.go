package graph

import "github.com/syssam/pocogen/schema"

// Accessible returns the tables reachable from included by foreign keys and
// complex types, excluding the included tables. It returns nil when nothing
// beyond the seed is reachable.
func Accessible(db *schema.Database, included []*schema.Table) []*schema.Table {
	if len(included) == 0 {
		return nil
	}
	var (
		referrers = referrerIndex(db)
		seen      = make(map[*schema.Table]struct{}, len(included))
		reached   = make([]*schema.Table, 0, len(included))
	)
	add := func(t *schema.Table) {
		if t == nil {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		reached = append(reached, t)
	}
	for _, t := range included {
		add(t)
	}
	seeds := len(reached)
	// Expand the window [start, end) and append discoveries to the tail until
	// a whole window adds nothing.
	for start := 0; start < len(reached); {
		end := len(reached)
		for _, t := range reached[start:end] {
			for _, fk := range t.ForeignKeys {
				add(fk.Primary)
			}
			for _, r := range referrers[t] {
				add(r)
			}
			for _, ct := range t.ComplexTypes {
				for _, owner := range ct.Owners {
					add(owner)
				}
			}
		}
		start = end
	}
	if len(reached) == seeds {
		return nil
	}
	return reached[seeds:]
}

// Resolve computes the accessible tables of db from the tables marked as
// included, stores them on db.Accessible and returns them.
func Resolve(db *schema.Database) []*schema.Table {
	db.Accessible = Accessible(db, db.IncludedTables())
	return db.Accessible
}

// referrerIndex maps every table to the tables holding a foreign key to it,
// in database order.
func referrerIndex(db *schema.Database) map[*schema.Table][]*schema.Table {
	idx := make(map[*schema.Table][]*schema.Table)
	for _, t := range db.Tables {
		for _, fk := range t.ForeignKeys {
			if fk.Primary == nil {
				continue
			}
			refs := idx[fk.Primary]
			if n := len(refs); n > 0 && refs[n-1] == t {
				continue
			}
			idx[fk.Primary] = append(refs, t)
		}
	}
	return idx
}
