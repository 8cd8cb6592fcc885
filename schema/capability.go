package schema

import "fmt"

// Dialect names a database dialect.
type Dialect string

// Supported dialects.
const (
	SQLServer Dialect = "sqlserver"
	MySQL     Dialect = "mysql"
	Postgres  Dialect = "postgres"
	SQLite    Dialect = "sqlite3"
)

// Dialects lists every supported dialect in detection order.
var Dialects = []Dialect{SQLServer, MySQL, Postgres, SQLite}

// Capabilities describes what a dialect can express. Naming and type mapping
// consult it instead of switching on the dialect name.
type Capabilities struct {
	SupportsSchemas        bool
	SupportsEnums          bool
	SupportsSets           bool
	SupportsTVPs           bool
	SupportsTableFunctions bool
}

// Capabilities returns the capability descriptor of the dialect.
func (d Dialect) Capabilities() Capabilities {
	switch d {
	case SQLServer:
		return Capabilities{SupportsSchemas: true, SupportsTVPs: true, SupportsTableFunctions: true}
	case MySQL:
		return Capabilities{SupportsEnums: true, SupportsSets: true}
	case Postgres:
		return Capabilities{SupportsSchemas: true, SupportsEnums: true, SupportsTableFunctions: true}
	default:
		return Capabilities{}
	}
}

// Valid reports whether d is a known dialect.
func (d Dialect) Valid() bool {
	for _, v := range Dialects {
		if v == d {
			return true
		}
	}
	return false
}

// ParseDialect parses a dialect name. Common aliases are accepted.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "sqlserver", "mssql":
		return SQLServer, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("schema: unknown dialect %q", s)
	}
}
