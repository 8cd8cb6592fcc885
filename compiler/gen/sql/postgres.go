package sql

import (
	"strings"

	"github.com/syssam/pocogen/compiler/gen"
	"github.com/syssam/pocogen/schema"
)

const pkgPQ = "github.com/lib/pq"

// Postgres returns the postgres type strategies.
func Postgres() *Dialect {
	return &Dialect{
		name: schema.Postgres,
		rules: map[gen.Category]Predicate{
			gen.CategoryBool:     oneOf("bool", "boolean"),
			gen.CategoryShort:    oneOf("smallint", "int2", "smallserial", "serial2"),
			gen.CategoryInt:      oneOf("integer", "int", "int4", "serial", "serial4"),
			gen.CategoryLong:     oneOf("bigint", "int8", "bigserial", "serial8"),
			gen.CategoryFloat:    oneOf("real", "float4", "double precision", "float8", "float"),
			gen.CategoryDecimal:  oneOf("numeric", "decimal", "money"),
			gen.CategoryDateTime: oneOf("date", "timestamp", "timestamptz", "timestamp without time zone", "timestamp with time zone", "time", "timetz", "time without time zone", "time with time zone"),
			gen.CategoryString:   oneOf("text", "varchar", "character varying", "char", "character", "bpchar", "name", "citext", "json", "jsonb", "xml", "inet", "cidr", "macaddr", "interval", "tsvector"),
			gen.CategoryBytes:    oneOf("bytea"),
			gen.CategoryGUID:     oneOf("uuid"),
		},
		opaque: postgresArray,
		funcs: map[string]gen.DefaultKind{
			"now":                          gen.DefaultNow,
			"current_timestamp":            gen.DefaultNow,
			"localtimestamp":               gen.DefaultNow,
			"current_date":                 gen.DefaultNow,
			"transaction_timestamp":        gen.DefaultNow,
			"statement_timestamp":          gen.DefaultNow,
			"clock_timestamp":              gen.DefaultNow,
			"timezone('utc', now())":       gen.DefaultNowUTC,
			"timezone('utc'::text, now())": gen.DefaultNowUTC,
			"now() at time zone 'utc'":     gen.DefaultNowUTC,
			"gen_random_uuid":              gen.DefaultNewID,
			"uuid_generate_v1":             gen.DefaultNewID,
			"uuid_generate_v4":             gen.DefaultNewID,
		},
	}
}

// arrayTypes maps array element types to their lib/pq scanners.
var arrayTypes = map[string]string{
	"bool":              "pq.BoolArray",
	"boolean":           "pq.BoolArray",
	"bytea":             "pq.ByteaArray",
	"smallint":          "pq.Int32Array",
	"int2":              "pq.Int32Array",
	"integer":           "pq.Int32Array",
	"int":               "pq.Int32Array",
	"int4":              "pq.Int32Array",
	"bigint":            "pq.Int64Array",
	"int8":              "pq.Int64Array",
	"real":              "pq.Float32Array",
	"float4":            "pq.Float32Array",
	"double precision":  "pq.Float64Array",
	"float8":            "pq.Float64Array",
	"numeric":           "pq.Float64Array",
	"decimal":           "pq.Float64Array",
	"text":              "pq.StringArray",
	"varchar":           "pq.StringArray",
	"character varying": "pq.StringArray",
	"char":              "pq.StringArray",
	"character":         "pq.StringArray",
	"bpchar":            "pq.StringArray",
	"citext":            "pq.StringArray",
	"uuid":              "pq.StringArray",
}

// postgresArray maps "text[]", "_text" and "ARRAY" columns.
func postgresArray(c *schema.Column) (gen.TypeRef, bool) {
	t := typeName(c)
	var elem string
	switch {
	case strings.HasSuffix(t, "[]"):
		elem = strings.TrimSpace(strings.TrimRight(t, "[]"))
	case strings.HasPrefix(t, "_"):
		elem = t[1:]
	case t == "array":
		elem = "text"
	default:
		return gen.TypeRef{}, false
	}
	name, ok := arrayTypes[elem]
	if !ok {
		return gen.TypeRef{}, false
	}
	return gen.TypeRef{Name: name, Import: pkgPQ, Nillable: true}, true
}
