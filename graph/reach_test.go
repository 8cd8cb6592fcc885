package graph_test

import (
	"testing"

	"github.com/syssam/pocogen/graph"
	"github.com/syssam/pocogen/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(name string, cols ...string) *schema.Table {
	t := schema.NewTable("", name)
	for _, c := range cols {
		t.Columns = append(t.Columns, schema.NewColumn(c, "int"))
	}
	return t
}

func names(tables []*schema.Table) []string {
	var out []string
	for _, t := range tables {
		out = append(out, t.Name)
	}
	return out
}

func TestAccessible(t *testing.T) {
	t.Run("ForeignSideOnlyIncluded", func(t *testing.T) {
		db := schema.NewDatabase("db")
		t1 := table("T1", "ID", "T2ID")
		t2 := table("T2", "ID")
		db.Add(t1, t2)
		t1.AddForeignKey("FK_T1_T2", t2, "T2ID", "ID")
		t1.Included = true

		got := graph.Resolve(db)
		assert.Equal(t, []string{"T2"}, names(got))
		assert.Equal(t, got, db.Accessible)
		assert.True(t, db.IsAccessible(t2))
		assert.False(t, db.IsAccessible(t1))
	})

	t.Run("PrimarySideIncluded", func(t *testing.T) {
		db := schema.NewDatabase("db")
		orders := table("Orders", "ID", "CustomerID")
		customers := table("Customers", "ID")
		db.Add(orders, customers)
		orders.AddForeignKey("FK", customers, "CustomerID", "ID")

		got := graph.Accessible(db, []*schema.Table{customers})
		assert.Equal(t, []string{"Orders"}, names(got))
	})

	t.Run("Transitive", func(t *testing.T) {
		db := schema.NewDatabase("db")
		a, b, c, d := table("A", "ID", "BID"), table("B", "ID", "CID"), table("C", "ID"), table("D", "ID")
		db.Add(a, b, c, d)
		a.AddForeignKey("FK_A_B", b, "BID", "ID")
		b.AddForeignKey("FK_B_C", c, "CID", "ID")

		got := graph.Accessible(db, []*schema.Table{a})
		assert.Equal(t, []string{"B", "C"}, names(got))
		assert.NotContains(t, got, d)
	})

	t.Run("Cycle", func(t *testing.T) {
		db := schema.NewDatabase("db")
		a, b := table("A", "ID", "BID"), table("B", "ID", "AID")
		self := table("Self", "ID", "ParentID")
		db.Add(a, b, self)
		a.AddForeignKey("FK_A_B", b, "BID", "ID")
		b.AddForeignKey("FK_B_A", a, "AID", "ID")
		self.AddForeignKey("FK_Self", self, "ParentID", "ID")

		assert.Equal(t, []string{"B"}, names(graph.Accessible(db, []*schema.Table{a})))
		assert.Nil(t, graph.Accessible(db, []*schema.Table{self}))
	})

	t.Run("ComplexType", func(t *testing.T) {
		db := schema.NewDatabase("db")
		x := table("X", "ID", "Addr_Street", "Addr_City")
		y := table("Y", "ID", "Addr_Street", "Addr_City")
		db.Add(x, y)
		schema.DetectComplexTypes(db, "_")

		assert.Equal(t, []string{"Y"}, names(graph.Accessible(db, []*schema.Table{x})))
	})

	t.Run("Empty", func(t *testing.T) {
		db := schema.NewDatabase("db")
		lone := table("Lone", "ID")
		db.Add(lone)
		assert.Nil(t, graph.Accessible(db, nil))
		assert.Nil(t, graph.Accessible(db, []*schema.Table{lone}))
		assert.Nil(t, graph.Resolve(db))
	})
}

func TestAccessibleProperties(t *testing.T) {
	db := schema.NewDatabase("db")
	var tables []*schema.Table
	for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
		tables = append(tables, table(n, "ID", "RefID", "Ref2ID"))
	}
	db.Add(tables[0], tables[1], tables[2], tables[3], tables[4], tables[5])
	// A -> B -> C -> A, D -> C, E isolated, F -> E.
	tables[0].AddForeignKey("FK1", tables[1], "RefID", "ID")
	tables[1].AddForeignKey("FK2", tables[2], "RefID", "ID")
	tables[2].AddForeignKey("FK3", tables[0], "RefID", "ID")
	tables[3].AddForeignKey("FK4", tables[2], "Ref2ID", "ID")
	tables[5].AddForeignKey("FK5", tables[4], "RefID", "ID")

	seed := []*schema.Table{tables[0], tables[3]}
	first := graph.Accessible(db, seed)

	t.Run("ExcludesSeed", func(t *testing.T) {
		for _, s := range seed {
			assert.NotContains(t, first, s)
		}
	})

	t.Run("Complete", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"B", "C"}, names(first))
	})

	t.Run("Idempotent", func(t *testing.T) {
		second := graph.Accessible(db, seed)
		require.Equal(t, names(first), names(second))
		closure := append(append([]*schema.Table{}, seed...), first...)
		assert.Nil(t, graph.Accessible(db, closure))
	})
}
