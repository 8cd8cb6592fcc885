package gen

import (
	"slices"
	"strings"

	"github.com/syssam/pocogen/naming"
)

// =============================================================================
// Helper functions
// =============================================================================

// fieldName returns the member name of a column or parameter.
func fieldName(raw string) string {
	name := naming.GoName(naming.CleanName(strings.TrimLeft(raw, "@:$")))
	if name == "" {
		return "Field"
	}
	return name
}

// snake returns the lower snake-case form of a member name, used as the
// json key.
func snake(member string) string {
	return naming.TransformName(member, "_", naming.Lower)
}

// fileName returns the file of an object in file-per-object mode.
func fileName(class string) string {
	return snake(class) + ".go"
}

// structTag renders the struct tag of a member. dbName is the column name
// and omitempty marks nillable members.
func structTag(keys []string, member, dbName string, omitempty bool) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := snake(member)
		if k == "db" {
			v = dbName
		} else if omitempty {
			v += ",omitempty"
		}
		parts = append(parts, k+`:"`+v+`"`)
	}
	return strings.Join(parts, " ")
}

// imports returns the sorted imports used by the structs.
func imports(structs []*Struct) []string {
	set := make(map[string]struct{})
	for _, st := range structs {
		for _, f := range st.Fields {
			for _, p := range f.Type.imports() {
				set[p] = struct{}{}
			}
		}
		for _, i := range st.Inits {
			if i.Disabled {
				continue
			}
			for _, p := range i.Imports {
				set[p] = struct{}{}
			}
		}
	}
	return sortImports(set)
}

// sortImports returns the standard library packages first, then the rest,
// each group sorted.
func sortImports(set map[string]struct{}) []string {
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	slices.SortFunc(paths, func(a, b string) int {
		if sa, sb := isStdlib(a), isStdlib(b); sa != sb {
			if sa {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
	return paths
}

func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
