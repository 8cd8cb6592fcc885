package sql

import (
	"github.com/syssam/pocogen/compiler/gen"
	"github.com/syssam/pocogen/schema"
)

// SQLServer returns the sqlserver type strategies.
func SQLServer() *Dialect {
	return &Dialect{
		name: schema.SQLServer,
		rules: map[gen.Category]Predicate{
			gen.CategoryBool:     oneOf("bit"),
			gen.CategoryByte:     oneOf("tinyint"),
			gen.CategoryShort:    oneOf("smallint"),
			gen.CategoryInt:      oneOf("int"),
			gen.CategoryLong:     oneOf("bigint"),
			gen.CategoryFloat:    oneOf("float", "real"),
			gen.CategoryDecimal:  oneOf("decimal", "numeric", "money", "smallmoney"),
			gen.CategoryDateTime: oneOf("date", "datetime", "datetime2", "smalldatetime", "datetimeoffset", "time"),
			gen.CategoryString:   oneOf("char", "nchar", "varchar", "nvarchar", "text", "ntext", "xml", "sysname"),
			gen.CategoryBytes:    oneOf("binary", "varbinary", "image", "timestamp", "rowversion"),
			gen.CategoryGUID:     oneOf("uniqueidentifier"),
		},
		// tinyint is 0..255.
		unsigned: oneOf("tinyint"),
		funcs: map[string]gen.DefaultKind{
			"getdate":           gen.DefaultNow,
			"current_timestamp": gen.DefaultNow,
			"sysdatetime":       gen.DefaultNow,
			"sysdatetimeoffset": gen.DefaultNow,
			"getutcdate":        gen.DefaultNowUTC,
			"sysutcdatetime":    gen.DefaultNowUTC,
			"newid":             gen.DefaultNewID,
			"newsequentialid":   gen.DefaultNewID,
		},
	}
}
