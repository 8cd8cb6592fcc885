package sql

import (
	"strings"

	"github.com/syssam/pocogen/compiler/gen"
	"github.com/syssam/pocogen/schema"
)

// MySQL returns the mysql type strategies.
func MySQL() *Dialect {
	flag := anyOf(
		both(oneOf("tinyint"), width(1)),
		both(oneOf("bit"), width(1)),
	)
	return &Dialect{
		name: schema.MySQL,
		rules: map[gen.Category]Predicate{
			gen.CategoryBool:     anyOf(oneOf("bool", "boolean"), flag),
			gen.CategoryByte:     both(oneOf("tinyint"), not(flag)),
			gen.CategoryShort:    oneOf("smallint", "year"),
			gen.CategoryInt:      oneOf("mediumint", "int", "integer"),
			gen.CategoryLong:     oneOf("bigint", "serial"),
			gen.CategoryFloat:    oneOf("float", "double", "double precision", "real"),
			gen.CategoryDecimal:  oneOf("decimal", "dec", "numeric", "fixed"),
			gen.CategoryDateTime: oneOf("date", "datetime", "timestamp", "time"),
			gen.CategoryString:   oneOf("char", "varchar", "tinytext", "text", "mediumtext", "longtext", "json", "enum", "set", "nchar", "nvarchar"),
			gen.CategoryBytes:    both(oneOf("binary", "varbinary", "tinyblob", "blob", "mediumblob", "longblob", "bit"), not(flag)),
		},
		unsigned: func(c *schema.Column) bool {
			return strings.Contains(strings.ToLower(c.DataType), "unsigned") || typeName(c) == "serial"
		},
		funcs: map[string]gen.DefaultKind{
			"current_timestamp": gen.DefaultNow,
			"now":               gen.DefaultNow,
			"localtime":         gen.DefaultNow,
			"localtimestamp":    gen.DefaultNow,
			"sysdate":           gen.DefaultNow,
			"utc_timestamp":     gen.DefaultNowUTC,
			"uuid":              gen.DefaultNewID,
		},
	}
}
