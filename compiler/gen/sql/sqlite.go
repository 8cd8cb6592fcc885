package sql

import (
	"github.com/syssam/pocogen/compiler/gen"
	"github.com/syssam/pocogen/schema"
)

// SQLite returns the sqlite type strategies. Declared types are free text in
// sqlite, so most categories follow the column affinity rules: a name
// containing "int" is an integer, "char", "clob" or "text" is text, and so on.
func SQLite() *Dialect {
	return &Dialect{
		name: schema.SQLite,
		rules: map[gen.Category]Predicate{
			gen.CategoryBool:     oneOf("bool", "boolean"),
			gen.CategoryLong:     contains("int"),
			gen.CategoryFloat:    contains("real", "floa", "doub"),
			gen.CategoryDecimal:  oneOf("numeric", "decimal"),
			gen.CategoryDateTime: oneOf("date", "datetime", "timestamp", "time"),
			gen.CategoryString:   contains("char", "clob", "text"),
			gen.CategoryBytes:    contains("blob"),
			gen.CategoryGUID:     oneOf("uuid", "guid", "uniqueidentifier"),
		},
		funcs: map[string]gen.DefaultKind{
			"current_timestamp":            gen.DefaultNowUTC,
			"current_date":                 gen.DefaultNowUTC,
			"current_time":                 gen.DefaultNowUTC,
			"datetime('now')":              gen.DefaultNowUTC,
			"date('now')":                  gen.DefaultNowUTC,
			"datetime('now','utc')":        gen.DefaultNowUTC,
			"datetime('now', 'utc')":       gen.DefaultNowUTC,
			"datetime('now','localtime')":  gen.DefaultNow,
			"datetime('now', 'localtime')": gen.DefaultNow,
		},
	}
}
