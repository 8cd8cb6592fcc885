package compiler

import (
	"path"

	"github.com/syssam/pocogen/compiler/gen"
	"github.com/syssam/pocogen/schema"
)

// selector marks objects as included from the Include and Exclude patterns.
type selector struct {
	include []string
	exclude []string
}

func newSelector(s *gen.ObjectSettings) *selector {
	return &selector{include: s.Include, exclude: s.Exclude}
}

// mark sets Included on every object of srv and returns the number of
// included objects.
func (sel *selector) mark(srv *schema.Server) int {
	n := 0
	for _, db := range srv.Databases {
		for _, o := range db.Objects() {
			info := o.Info()
			info.Included = sel.selected(info)
			if info.Included {
				n++
			}
		}
	}
	return n
}

func (sel *selector) selected(info *schema.ObjectInfo) bool {
	names := []string{info.Name}
	if info.Schema != "" {
		names = append(names, info.QualifiedName())
	}
	if len(sel.include) > 0 && !match(sel.include, names) {
		return false
	}
	return !match(sel.exclude, names)
}

// match reports whether any pattern matches any name. Patterns were
// validated when they were configured.
func match(patterns, names []string) bool {
	for _, p := range patterns {
		for _, n := range names {
			if ok, _ := path.Match(p, n); ok {
				return true
			}
		}
	}
	return false
}
