package gen

import (
	"fmt"
	"sort"
	"sync"

	"github.com/syssam/pocogen/schema"
)

// =============================================================================
// Type categories
// =============================================================================

// Category classifies a column type. Type mapping and default rendering walk
// the categories in Chain order and stop at the first one a Dialect claims.
type Category uint8

// Categories, in resolution priority.
const (
	CategoryBool Category = iota + 1
	CategoryByte
	CategoryShort
	CategoryInt
	CategoryLong
	CategoryFloat
	CategoryDecimal
	CategoryDateTime
	CategoryString
	CategoryBytes
	CategoryGUID
)

// Chain lists the categories in the order they are tried.
var Chain = []Category{
	CategoryBool,
	CategoryByte,
	CategoryShort,
	CategoryInt,
	CategoryLong,
	CategoryFloat,
	CategoryDecimal,
	CategoryDateTime,
	CategoryString,
	CategoryBytes,
	CategoryGUID,
}

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryBool:
		return "bool"
	case CategoryByte:
		return "byte"
	case CategoryShort:
		return "short"
	case CategoryInt:
		return "int"
	case CategoryLong:
		return "long"
	case CategoryFloat:
		return "float"
	case CategoryDecimal:
		return "decimal"
	case CategoryDateTime:
		return "datetime"
	case CategoryString:
		return "string"
	case CategoryBytes:
		return "bytes"
	case CategoryGUID:
		return "guid"
	default:
		return "unknown"
	}
}

// =============================================================================
// Dialect strategies
// =============================================================================

// Dialect answers the type questions of one database dialect. Implementations
// live in the sql subpackage and register themselves with RegisterDialect.
type Dialect interface {
	// Name returns the dialect the strategies apply to.
	Name() schema.Dialect
	// Is reports whether column c belongs to category cat.
	Is(cat Category, c *schema.Column) bool
	// Unsigned reports whether an integer column holds unsigned values.
	Unsigned(c *schema.Column) bool
	// Opaque maps dialect-specific types no category covers, such as
	// postgres arrays. It reports false for every other column.
	Opaque(c *schema.Column) (TypeRef, bool)
	// Default classifies the raw default expression of c.
	Default(c *schema.Column) DefaultValue
}

// Classify returns the first category of Chain that d claims for c, or zero
// when none does.
func Classify(d Dialect, c *schema.Column) Category {
	for _, cat := range Chain {
		if d.Is(cat, c) {
			return cat
		}
	}
	return 0
}

var dialects = struct {
	sync.RWMutex
	m map[schema.Dialect]Dialect
}{m: make(map[schema.Dialect]Dialect)}

// RegisterDialect makes d available to LookupDialect. A later registration
// for the same name replaces the earlier one.
func RegisterDialect(d Dialect) {
	dialects.Lock()
	defer dialects.Unlock()
	dialects.m[d.Name()] = d
}

// LookupDialect returns the strategies registered for name.
func LookupDialect(name schema.Dialect) (Dialect, error) {
	dialects.RLock()
	defer dialects.RUnlock()
	d, ok := dialects.m[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDialect, name)
	}
	return d, nil
}

// RegisteredDialects returns the names of all registered dialects, sorted.
func RegisteredDialects() []schema.Dialect {
	dialects.RLock()
	defer dialects.RUnlock()
	names := make([]schema.Dialect, 0, len(dialects.m))
	for n := range dialects.m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
