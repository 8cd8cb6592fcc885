package load

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/pocogen/schema"
)

// AtlasProvider inspects a live database with Atlas.
type AtlasProvider struct {
	// Open opens a database handle. Defaults to sql.Open.
	Open func(driver, dsn string) (*sql.DB, error)
	// Log receives query statistics. Defaults to slog.Default.
	Log *slog.Logger
	// SlowQuery is the threshold for slow query warnings. Defaults to
	// DefaultSlowQuery; a negative value disables them.
	SlowQuery time.Duration
}

var _ Provider = (*AtlasProvider)(nil)

// source is a resolved connection.
type source struct {
	dialect  schema.Dialect
	driver   string
	dsn      string
	server   string
	database string
}

// Load implements Provider.
func (p *AtlasProvider) Load(ctx context.Context, req Request) (*schema.Server, error) {
	d, err := DetectDialect(req.DSN, req.Dialect)
	if err != nil {
		return nil, err
	}
	src, err := resolve(d, strings.TrimSpace(req.DSN))
	if err != nil {
		return nil, err
	}
	open := p.Open
	if open == nil {
		open = sql.Open
	}
	db, err := open(src.driver, src.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionInvalid, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrServerUnreachable, src.server, err)
	}
	q := p.instrument(db)
	drv, err := inspector(d, q)
	if err != nil {
		return nil, err
	}
	realm, err := drv.InspectRealm(ctx, &atlas.InspectRealmOption{Schemas: req.Schemas})
	if err != nil {
		return nil, fmt.Errorf("pocogen: inspect %s: %w", src.server, err)
	}
	q.log.Info("database inspected", "server", src.server, "dialect", string(d), "stats", q.stats.String())
	srv := schema.NewServer(src.server, d)
	srv.Version = version(ctx, db, d)
	convertRealm(srv, realm, src.database)
	return srv, nil
}

func (p *AtlasProvider) instrument(db *sql.DB) *querier {
	q := &querier{db: db, stats: &QueryStats{}, slow: p.SlowQuery, log: p.Log}
	if q.log == nil {
		q.log = slog.Default()
	}
	if q.slow == 0 {
		q.slow = DefaultSlowQuery
	}
	return q
}

// resolve turns a connection string into a driver name and data source.
func resolve(d schema.Dialect, conn string) (*source, error) {
	src := &source{dialect: d, dsn: conn}
	switch d {
	case schema.MySQL:
		src.driver = "mysql"
		cfg, err := mysqlConfig(conn)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionInvalid, err)
		}
		src.dsn = cfg.FormatDSN()
		src.server, src.database = cfg.Addr, cfg.DBName
	case schema.Postgres:
		src.driver = "postgres"
		kv := conn
		if strings.Contains(conn, "://") {
			var err error
			if kv, err = pq.ParseURL(conn); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConnectionInvalid, err)
			}
		}
		params := keyValues(kv)
		src.server, src.database = params["host"], params["dbname"]
		if src.server == "" {
			src.server = "localhost"
		}
	case schema.SQLite:
		src.driver = "sqlite"
		for _, prefix := range []string{"sqlite://", "sqlite3://"} {
			src.dsn = strings.TrimPrefix(src.dsn, prefix)
		}
		file, _, _ := strings.Cut(strings.TrimPrefix(src.dsn, "file:"), "?")
		src.server = file
		src.database = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	default:
		return nil, fmt.Errorf("%w: no inspector for dialect %s", ErrNoMatchingDialect, d)
	}
	if src.database == "" {
		src.database = "main"
	}
	return src, nil
}

// mysqlConfig parses both driver DSNs and mysql:// URLs.
func mysqlConfig(conn string) (*gomysql.Config, error) {
	if !strings.Contains(conn, "://") {
		return gomysql.ParseDSN(conn)
	}
	u, err := url.Parse(conn)
	if err != nil {
		return nil, err
	}
	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr += ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	return cfg, nil
}

// keyValues parses a "key=value key=value" connection string.
func keyValues(conn string) map[string]string {
	params := make(map[string]string)
	for _, f := range strings.Fields(conn) {
		if k, v, ok := strings.Cut(f, "="); ok {
			params[strings.ToLower(k)] = strings.Trim(v, "'")
		}
	}
	return params
}

func inspector(d schema.Dialect, db atlas.ExecQuerier) (migrate.Driver, error) {
	var (
		drv migrate.Driver
		err error
	)
	switch d {
	case schema.MySQL:
		drv, err = mysql.Open(db)
	case schema.Postgres:
		drv, err = postgres.Open(db)
	case schema.SQLite:
		drv, err = sqlite.Open(db)
	default:
		return nil, fmt.Errorf("%w: no inspector for dialect %s", ErrNoMatchingDialect, d)
	}
	if err != nil {
		return nil, fmt.Errorf("pocogen: open %s inspector: %w", d, err)
	}
	return drv, nil
}

func version(ctx context.Context, db *sql.DB, d schema.Dialect) string {
	query := map[schema.Dialect]string{
		schema.MySQL:    "SELECT VERSION()",
		schema.Postgres: "SHOW server_version",
		schema.SQLite:   "SELECT sqlite_version()",
	}[d]
	var v string
	if err := db.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return ""
	}
	return v
}

// =============================================================================
// Realm conversion
// =============================================================================

// convertRealm adds the inspected schemas to srv. Dialects with schemas get
// one database holding every schema, the others one database per schema. A
// single SQLite schema is named after its file.
func convertRealm(srv *schema.Server, realm *atlas.Realm, database string) {
	var (
		tables = make(map[*atlas.Table]*schema.Table)
		dbs    = make(map[*atlas.Schema]*schema.Database)
		shared *schema.Database
	)
	for _, s := range realm.Schemas {
		owner := ""
		switch {
		case srv.Capabilities.SupportsSchemas:
			owner = s.Name
			if shared == nil {
				shared = schema.NewDatabase(database)
				srv.Add(shared)
			}
			dbs[s] = shared
		default:
			name := s.Name
			if srv.Dialect == schema.SQLite && len(realm.Schemas) == 1 {
				name = database
			}
			db := schema.NewDatabase(name)
			srv.Add(db)
			dbs[s] = db
		}
		for _, at := range s.Tables {
			t := schema.NewTable(owner, at.Name, convertColumns(at.Columns)...)
			t.Comment = comment(at.Attrs)
			tables[at] = t
			dbs[s].Add(t)
		}
		for _, av := range s.Views {
			v := schema.NewView(owner, av.Name, convertColumns(av.Columns)...)
			v.Comment = comment(av.Attrs)
			dbs[s].Add(v)
		}
	}
	for at, t := range tables {
		if err := convertKeys(at, t, tables); err != nil {
			t.Err = fmt.Errorf("table %s: %w", t.QualifiedName(), err)
		}
	}
}

func convertColumns(cols []*atlas.Column) []*schema.Column {
	out := make([]*schema.Column, len(cols))
	for i, ac := range cols {
		c := &schema.Column{Name: ac.Name, Ordinal: i + 1}
		if ac.Type != nil {
			c.DataType = dataType(ac.Type)
			c.Nullable = ac.Type.Null
			switch t := ac.Type.Type.(type) {
			case *atlas.StringType:
				c.Length = int64(t.Size)
			case *atlas.BinaryType:
				if t.Size != nil {
					c.Length = int64(*t.Size)
				}
			case *atlas.DecimalType:
				c.Precision, c.Scale = t.Precision, t.Scale
			case *atlas.FloatType:
				c.Precision = t.Precision
			case *atlas.EnumType:
				c.EnumValues = t.Values
			case *mysql.SetType:
				c.EnumValues, c.Set = t.Values, true
			case *postgres.SerialType:
				c.Identity = true
			}
		}
		switch x := ac.Default.(type) {
		case *atlas.Literal:
			v := x.V
			c.Default = &v
		case *atlas.RawExpr:
			v := x.X
			c.Default = &v
		}
		for _, a := range ac.Attrs {
			switch a := a.(type) {
			case *atlas.Comment:
				c.Comment = a.Text
			case *atlas.GeneratedExpr:
				c.Computed = true
			case *mysql.AutoIncrement, *sqlite.AutoIncrement, *postgres.Identity:
				c.Identity = true
			}
		}
		out[i] = c
	}
	return out
}

// dataType returns the raw type name the dialect tables classify.
func dataType(ct *atlas.ColumnType) string {
	switch t := ct.Type.(type) {
	case *postgres.ArrayType:
		return t.T
	case *postgres.SerialType:
		return t.T
	case *mysql.SetType:
		return "set"
	case *atlas.IntegerType:
		if t.Unsigned && !strings.Contains(strings.ToLower(ct.Raw), "unsigned") {
			return t.T + " unsigned"
		}
	case *atlas.EnumType:
		if ct.Raw == "" || strings.EqualFold(ct.Raw, "USER-DEFINED") {
			return "enum"
		}
	}
	if ct.Raw != "" && !strings.EqualFold(ct.Raw, "USER-DEFINED") {
		return ct.Raw
	}
	switch t := ct.Type.(type) {
	case *atlas.BoolType:
		return t.T
	case *atlas.IntegerType:
		return t.T
	case *atlas.StringType:
		return t.T
	case *atlas.BinaryType:
		return t.T
	case *atlas.DecimalType:
		return t.T
	case *atlas.FloatType:
		return t.T
	case *atlas.TimeType:
		return t.T
	case *atlas.JSONType:
		return t.T
	case *atlas.UUIDType:
		return t.T
	case *atlas.SpatialType:
		return t.T
	case *atlas.UnsupportedType:
		return t.T
	}
	return ""
}

func convertKeys(at *atlas.Table, t *schema.Table, tables map[*atlas.Table]*schema.Table) error {
	if pk := at.PrimaryKey; pk != nil {
		t.SetPrimaryKey(pk.Name, partNames(pk.Parts)...)
	}
	for _, idx := range at.Indexes {
		if names := partNames(idx.Parts); len(names) == len(idx.Parts) {
			t.AddIndex(idx.Name, idx.Unique, names...)
		}
	}
	for _, fk := range at.ForeignKeys {
		ref, ok := tables[fk.RefTable]
		if !ok || fk.RefTable == nil {
			name := "?"
			if fk.RefTable != nil {
				name = fk.RefTable.Name
			}
			return fmt.Errorf("foreign key %q: referenced table %q was not loaded", fk.Symbol, name)
		}
		if len(fk.Columns) != len(fk.RefColumns) {
			return fmt.Errorf("foreign key %q: %d columns reference %d columns", fk.Symbol, len(fk.Columns), len(fk.RefColumns))
		}
		pairs := make([]string, 0, 2*len(fk.Columns))
		for i, c := range fk.Columns {
			pairs = append(pairs, c.Name, fk.RefColumns[i].Name)
		}
		t.AddForeignKey(fk.Symbol, ref, pairs...)
	}
	return nil
}

// partNames returns the column names of the index parts. Expression parts
// are skipped.
func partNames(parts []*atlas.IndexPart) []string {
	var names []string
	for _, p := range parts {
		if p.C != nil {
			names = append(names, p.C.Name)
		}
	}
	return names
}

func comment(attrs []atlas.Attr) string {
	for _, a := range attrs {
		if c, ok := a.(*atlas.Comment); ok {
			return c.Text
		}
	}
	return ""
}
