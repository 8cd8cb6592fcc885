package load

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/pocogen/schema"
)

// Document is the serialized form of a schema model. References between
// objects are kept by name, so a document can be written by hand (YAML
// schema files) or produced from a loaded model (schema caches).
type Document struct {
	Format    int            `yaml:"format,omitempty"`
	Name      string         `yaml:"name,omitempty"`
	Version   string         `yaml:"version,omitempty"`
	Dialect   string         `yaml:"dialect,omitempty"`
	Databases []*DatabaseDoc `yaml:"databases"`
}

// DatabaseDoc is one database of a Document.
type DatabaseDoc struct {
	Name       string       `yaml:"name"`
	Tables     []*ObjectDoc `yaml:"tables,omitempty"`
	Views      []*ObjectDoc `yaml:"views,omitempty"`
	Procedures []*ObjectDoc `yaml:"procedures,omitempty"`
	Functions  []*ObjectDoc `yaml:"functions,omitempty"`
	TVPs       []*ObjectDoc `yaml:"tvps,omitempty"`
}

// ObjectDoc describes any object. Keys, indexes and foreign keys apply to
// tables, parameters to routines.
type ObjectDoc struct {
	Name        string           `yaml:"name"`
	Schema      string           `yaml:"schema,omitempty"`
	Comment     string           `yaml:"comment,omitempty"`
	Columns     []*ColumnDoc     `yaml:"columns,omitempty"`
	PrimaryKey  *IndexDoc        `yaml:"primary_key,omitempty"`
	Indexes     []*IndexDoc      `yaml:"indexes,omitempty"`
	ForeignKeys []*ForeignKeyDoc `yaml:"foreign_keys,omitempty"`
	Parameters  []*ParameterDoc  `yaml:"parameters,omitempty"`
	TableValued bool             `yaml:"table_valued,omitempty"`
	// Errors holds the messages of the object's error chain, outermost first.
	Errors []string `yaml:"errors,omitempty"`
}

// ColumnDoc describes a column.
type ColumnDoc struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Length    int64    `yaml:"length,omitempty"`
	Precision int      `yaml:"precision,omitempty"`
	Scale     int      `yaml:"scale,omitempty"`
	Nullable  bool     `yaml:"nullable,omitempty"`
	Identity  bool     `yaml:"identity,omitempty"`
	Computed  bool     `yaml:"computed,omitempty"`
	Default   *string  `yaml:"default,omitempty"`
	Enum      []string `yaml:"enum,omitempty"`
	Set       bool     `yaml:"set,omitempty"`
	Comment   string   `yaml:"comment,omitempty"`
}

// IndexDoc describes a primary key or an index.
type IndexDoc struct {
	Name    string   `yaml:"name,omitempty"`
	Unique  bool     `yaml:"unique,omitempty"`
	Columns []string `yaml:"columns"`
}

// ForeignKeyDoc describes a foreign key by the names of its columns and of
// the referenced table.
type ForeignKeyDoc struct {
	Name       string   `yaml:"name,omitempty"`
	Columns    []string `yaml:"columns"`
	RefSchema  string   `yaml:"ref_schema,omitempty"`
	RefTable   string   `yaml:"ref_table"`
	RefColumns []string `yaml:"ref_columns"`
}

// ParameterDoc describes a routine parameter.
type ParameterDoc struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Length    int64  `yaml:"length,omitempty"`
	Precision int    `yaml:"precision,omitempty"`
	Scale     int    `yaml:"scale,omitempty"`
	Nullable  bool   `yaml:"nullable,omitempty"`
	Direction string `yaml:"direction,omitempty"`
}

// =============================================================================
// Document -> model
// =============================================================================

// Server builds the schema model described by the document. The document
// dialect wins over fallback. Unresolvable references are attached to the
// owning object's error chain.
func (d *Document) Server(fallback schema.Dialect) (*schema.Server, error) {
	dialect := fallback
	if d.Dialect != "" {
		v, err := schema.ParseDialect(d.Dialect)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoMatchingDialect, err)
		}
		dialect = v
	}
	if dialect == "" {
		return nil, fmt.Errorf("%w: document %q names no dialect", ErrNoMatchingDialect, d.Name)
	}
	srv := schema.NewServer(d.Name, dialect)
	srv.Version = d.Version
	for _, dd := range d.Databases {
		srv.Add(dd.database())
	}
	return srv, nil
}

func (dd *DatabaseDoc) database() *schema.Database {
	db := schema.NewDatabase(dd.Name)
	tables := make([]*schema.Table, len(dd.Tables))
	for i, od := range dd.Tables {
		tables[i] = schema.NewTable(od.Schema, od.Name, od.columns()...)
		db.Add(tables[i])
	}
	// Keys and foreign keys resolve against every table of the database.
	for i, od := range dd.Tables {
		od.table(db, tables[i])
	}
	for _, od := range dd.Views {
		v := schema.NewView(od.Schema, od.Name, od.columns()...)
		od.info(&v.ObjectInfo)
		db.Add(v)
	}
	for _, od := range dd.Procedures {
		p := schema.NewProcedure(od.Schema, od.Name, od.columns()...)
		p.Parameters = od.parameters()
		od.info(&p.ObjectInfo)
		db.Add(p)
	}
	for _, od := range dd.Functions {
		f := schema.NewFunction(od.Schema, od.Name, od.columns()...)
		f.Parameters = od.parameters()
		f.TableValued = f.TableValued || od.TableValued
		od.info(&f.ObjectInfo)
		db.Add(f)
	}
	for _, od := range dd.TVPs {
		tvp := schema.NewTVP(od.Schema, od.Name, od.columns()...)
		od.info(&tvp.ObjectInfo)
		db.Add(tvp)
	}
	return db
}

func (od *ObjectDoc) info(info *schema.ObjectInfo) {
	info.Comment = od.Comment
	info.Err = chain(od.Errors)
}

func (od *ObjectDoc) table(db *schema.Database, t *schema.Table) {
	od.info(&t.ObjectInfo)
	var errs []error
	if pk := od.PrimaryKey; pk != nil {
		if err := od.check("primary key", pk.Name, pk.Columns); err != nil {
			errs = append(errs, err)
		} else {
			t.SetPrimaryKey(pk.Name, pk.Columns...)
		}
	}
	for _, idx := range od.Indexes {
		if err := od.check("index", idx.Name, idx.Columns); err != nil {
			errs = append(errs, err)
			continue
		}
		t.AddIndex(idx.Name, idx.Unique, idx.Columns...)
	}
	for _, fk := range od.ForeignKeys {
		if err := od.foreignKey(db, t, fk); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 && t.Err == nil {
		t.Err = fmt.Errorf("table %s: %w", t.QualifiedName(), flatten(errs))
	}
}

// flatten returns errs as one error whose message lists every failure on a
// single line.
func flatten(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (od *ObjectDoc) check(kind, name string, cols []string) error {
	if len(cols) == 0 {
		return fmt.Errorf("%s %q has no columns", kind, name)
	}
	for _, c := range cols {
		if !od.hasColumn(c) {
			return fmt.Errorf("%s %q: unknown column %q", kind, name, c)
		}
	}
	return nil
}

func (od *ObjectDoc) hasColumn(name string) bool {
	for _, c := range od.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (od *ObjectDoc) foreignKey(db *schema.Database, t *schema.Table, fk *ForeignKeyDoc) error {
	if err := od.check("foreign key", fk.Name, fk.Columns); err != nil {
		return err
	}
	if len(fk.Columns) != len(fk.RefColumns) {
		return fmt.Errorf("foreign key %q: %d columns reference %d columns", fk.Name, len(fk.Columns), len(fk.RefColumns))
	}
	ref, ok := db.Table(fk.RefSchema, fk.RefTable)
	if !ok {
		return fmt.Errorf("foreign key %q: referenced table %q not found", fk.Name, qualify(fk.RefSchema, fk.RefTable))
	}
	pairs := make([]string, 0, 2*len(fk.Columns))
	for i, c := range fk.Columns {
		if _, ok := ref.Column(fk.RefColumns[i]); !ok {
			return fmt.Errorf("foreign key %q: unknown column %q in %s", fk.Name, fk.RefColumns[i], ref.QualifiedName())
		}
		pairs = append(pairs, c, fk.RefColumns[i])
	}
	t.AddForeignKey(fk.Name, ref, pairs...)
	return nil
}

func (od *ObjectDoc) columns() []*schema.Column {
	cols := make([]*schema.Column, len(od.Columns))
	for i, cd := range od.Columns {
		cols[i] = &schema.Column{
			Name:       cd.Name,
			Ordinal:    i + 1,
			DataType:   cd.Type,
			Length:     cd.Length,
			Precision:  cd.Precision,
			Scale:      cd.Scale,
			Nullable:   cd.Nullable,
			Identity:   cd.Identity,
			Computed:   cd.Computed,
			Default:    cd.Default,
			EnumValues: cd.Enum,
			Set:        cd.Set,
			Comment:    cd.Comment,
		}
	}
	return cols
}

func (od *ObjectDoc) parameters() []*schema.Parameter {
	params := make([]*schema.Parameter, len(od.Parameters))
	for i, pd := range od.Parameters {
		params[i] = &schema.Parameter{
			Name:      pd.Name,
			Ordinal:   i + 1,
			DataType:  pd.Type,
			Length:    pd.Length,
			Precision: pd.Precision,
			Scale:     pd.Scale,
			Nullable:  pd.Nullable,
			Direction: parseDirection(pd.Direction),
		}
	}
	return params
}

func parseDirection(s string) schema.Direction {
	switch s {
	case "out", "output":
		return schema.DirOut
	case "inout", "in_out":
		return schema.DirInOut
	default:
		return schema.DirIn
	}
}

// chain rebuilds an error chain from its messages, outermost first.
func chain(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	err := errors.New(msgs[len(msgs)-1])
	for i := len(msgs) - 2; i >= 0; i-- {
		err = fmt.Errorf("%s: %w", msgs[i], err)
	}
	return err
}

func qualify(schemaName, name string) string {
	if schemaName == "" {
		return name
	}
	return schemaName + "." + name
}

// =============================================================================
// Model -> document
// =============================================================================

// NewDocument returns the document form of srv.
func NewDocument(srv *schema.Server) *Document {
	d := &Document{
		Format:  cacheFormat,
		Name:    srv.Name,
		Version: srv.Version,
		Dialect: string(srv.Dialect),
	}
	for _, db := range srv.Databases {
		dd := &DatabaseDoc{Name: db.Name}
		for _, t := range db.Tables {
			dd.Tables = append(dd.Tables, tableDoc(t))
		}
		for _, v := range db.Views {
			dd.Views = append(dd.Views, objectDoc(&v.ObjectInfo))
		}
		for _, p := range db.Procedures {
			od := objectDoc(&p.ObjectInfo)
			od.Parameters = parameterDocs(p.Parameters)
			dd.Procedures = append(dd.Procedures, od)
		}
		for _, f := range db.Functions {
			od := objectDoc(&f.ObjectInfo)
			od.Parameters = parameterDocs(f.Parameters)
			od.TableValued = f.TableValued
			dd.Functions = append(dd.Functions, od)
		}
		for _, tvp := range db.TVPs {
			dd.TVPs = append(dd.TVPs, objectDoc(&tvp.ObjectInfo))
		}
		d.Databases = append(d.Databases, dd)
	}
	return d
}

func objectDoc(info *schema.ObjectInfo) *ObjectDoc {
	od := &ObjectDoc{
		Name:    info.Name,
		Schema:  info.Schema,
		Comment: info.Comment,
	}
	if info.Err != nil {
		od.Errors = schema.ErrorMessages(info.Err)
	}
	for _, c := range info.Columns {
		od.Columns = append(od.Columns, &ColumnDoc{
			Name:      c.Name,
			Type:      c.DataType,
			Length:    c.Length,
			Precision: c.Precision,
			Scale:     c.Scale,
			Nullable:  c.Nullable,
			Identity:  c.Identity,
			Computed:  c.Computed,
			Default:   c.Default,
			Enum:      c.EnumValues,
			Set:       c.Set,
			Comment:   c.Comment,
		})
	}
	return od
}

func tableDoc(t *schema.Table) *ObjectDoc {
	od := objectDoc(&t.ObjectInfo)
	if t.PrimaryKey != nil {
		od.PrimaryKey = &IndexDoc{Name: t.PrimaryKey.Name, Columns: columnNames(t.PrimaryKey.Columns)}
	}
	for _, idx := range t.Indexes {
		od.Indexes = append(od.Indexes, &IndexDoc{Name: idx.Name, Unique: idx.Unique, Columns: columnNames(idx.Columns)})
	}
	for _, fk := range t.ForeignKeys {
		od.ForeignKeys = append(od.ForeignKeys, &ForeignKeyDoc{
			Name:       fk.Name,
			Columns:    columnNames(fk.ForeignColumns()),
			RefSchema:  fk.Primary.Schema,
			RefTable:   fk.Primary.Name,
			RefColumns: columnNames(fk.PrimaryColumns()),
		})
	}
	return od
}

func parameterDocs(params []*schema.Parameter) []*ParameterDoc {
	docs := make([]*ParameterDoc, len(params))
	for i, p := range params {
		docs[i] = &ParameterDoc{
			Name:      p.Name,
			Type:      p.DataType,
			Length:    p.Length,
			Precision: p.Precision,
			Scale:     p.Scale,
			Nullable:  p.Nullable,
			Direction: p.Direction.String(),
		}
	}
	return docs
}

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
