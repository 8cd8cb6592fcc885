package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/pocogen/compiler/gen"
	"github.com/syssam/pocogen/schema"
)

func init() {
	for _, d := range []*Dialect{SQLServer(), MySQL(), Postgres(), SQLite()} {
		gen.RegisterDialect(d)
	}
}

// Predicate tests one column.
type Predicate func(*schema.Column) bool

// Dialect implements gen.Dialect with a predicate table per category.
type Dialect struct {
	name     schema.Dialect
	rules    map[gen.Category]Predicate
	unsigned Predicate
	opaque   func(*schema.Column) (gen.TypeRef, bool)
	funcs    map[string]gen.DefaultKind
}

var _ gen.Dialect = (*Dialect)(nil)

// Name returns the dialect name.
func (d *Dialect) Name() schema.Dialect { return d.name }

// Is reports whether c belongs to cat.
func (d *Dialect) Is(cat gen.Category, c *schema.Column) bool {
	p, ok := d.rules[cat]
	return ok && p(c)
}

// Unsigned reports whether c is an unsigned integer column.
func (d *Dialect) Unsigned(c *schema.Column) bool {
	return d.unsigned != nil && d.unsigned(c)
}

// Opaque maps types outside the category chain.
func (d *Dialect) Opaque(c *schema.Column) (gen.TypeRef, bool) {
	if d.opaque == nil {
		return gen.TypeRef{}, false
	}
	return d.opaque(c)
}

// Default classifies the default expression of c.
func (d *Dialect) Default(c *schema.Column) gen.DefaultValue {
	if !c.HasDefault() {
		return gen.DefaultValue{}
	}
	return gen.ParseDefault(*c.Default, d.funcs)
}

// =============================================================================
// Predicates
// =============================================================================

// typeName returns the base type of c without sign modifiers.
func typeName(c *schema.Column) string {
	t := c.BaseType()
	for _, m := range []string{" unsigned", " signed", " zerofill"} {
		t = strings.ReplaceAll(t, m, "")
	}
	return t
}

// oneOf matches columns whose base type is one of names.
func oneOf(names ...string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(c *schema.Column) bool {
		_, ok := set[typeName(c)]
		return ok
	}
}

// contains matches columns whose base type contains one of parts.
func contains(parts ...string) Predicate {
	return func(c *schema.Column) bool {
		t := typeName(c)
		for _, p := range parts {
			if strings.Contains(t, p) {
				return true
			}
		}
		return false
	}
}

func anyOf(ps ...Predicate) Predicate {
	return func(c *schema.Column) bool {
		for _, p := range ps {
			if p(c) {
				return true
			}
		}
		return false
	}
}

func not(p Predicate) Predicate {
	return func(c *schema.Column) bool { return !p(c) }
}

func both(a, b Predicate) Predicate {
	return func(c *schema.Column) bool { return a(c) && b(c) }
}

// width matches columns declared with a single-unit length, as in
// "tinyint(1)" or "bit(1)".
func width(n int64) Predicate {
	return func(c *schema.Column) bool {
		if c.Length == n || c.Precision == int(n) {
			return true
		}
		return strings.Contains(strings.ReplaceAll(strings.ToLower(c.DataType), " ", ""), "("+strconv.FormatInt(n, 10)+")")
	}
}
