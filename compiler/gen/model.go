package gen

import (
	"slices"
	"strings"

	"github.com/syssam/pocogen/naming"
	"github.com/syssam/pocogen/schema"
)

type (
	// Struct is one generated Go type.
	Struct struct {
		// Name of the Go type.
		Name string
		// Doc holds the lines of the doc comment, without comment markers.
		Doc []string
		// Fields in emission order.
		Fields []*Field
		// Navigations holds the relationship members of table structs.
		Navigations []*Navigation
		// Enums declared after the struct when enums are typed.
		Enums []*Enum
		// Inits holds the statements of the NewX constructor.
		Inits []Init
		// TableName is returned by the TableName method. Empty means the
		// method is not emitted.
		TableName string
	}

	// Field is a struct member backed by a column or parameter.
	Field struct {
		Name string
		Type TypeRef
		// Column backing the field. For parameters a synthesized column.
		Column *schema.Column
		// ComplexType is set for members folding a column group.
		ComplexType *schema.ComplexTypeTable
		Tag         string
		Comment     string
	}

	// Enum is a typed string enum generated for an enum or set column.
	Enum struct {
		Name   string
		Column *schema.Column
		Values []EnumValue
	}

	// EnumValue is one constant of an Enum.
	EnumValue struct {
		Name  string
		Value string
	}

	// objectModel is everything emitted for one database object.
	objectModel struct {
		object  schema.Object
		class   string
		structs []*Struct
		imports []string
	}
)

// enumConsts maps the values of the enums of st to their constant names.
func (st *Struct) enumConsts(c *schema.Column) map[string]string {
	for _, e := range st.Enums {
		if e.Column != c {
			continue
		}
		m := make(map[string]string, len(e.Values))
		for _, v := range e.Values {
			m[v.Value] = v.Name
		}
		return m
	}
	return nil
}

// =============================================================================
// Class names
// =============================================================================

// className returns the type name of an object before disambiguation.
func className(cs *ClassNameSettings, caps schema.Capabilities, o schema.Object) string {
	info := o.Info()
	name := naming.CleanName(info.Name)
	if cs.Singularize && (o.Kind() == schema.KindTable || o.Kind() == schema.KindView) {
		name = naming.Singularize(name)
	}
	if cs.IncludeSchema && caps.SupportsSchemas && info.Schema != "" && !slices.Contains(cs.DefaultSchemas, info.Schema) {
		name = naming.CleanName(info.Schema) + "_" + name
	}
	if cs.Casing == naming.Pascal {
		name = naming.GoName(name)
	} else {
		name = naming.Escape(naming.CleanName(naming.TransformName(name, cs.Separator, cs.Casing)))
	}
	return cs.Prefix + name + cs.Suffix
}

// =============================================================================
// Struct building
// =============================================================================

// builder turns schema objects into Struct models for one run.
type builder struct {
	settings *Settings
	caps     schema.Capabilities
	types    typeMapper
	defaults defaultRenderer
	classes  map[schema.Object]string
	// taken holds every class name of the run; enum names avoid them.
	taken map[string]struct{}
}

// model builds the structs of o. Objects carrying an error get no structs.
func (b *builder) model(o schema.Object) *objectModel {
	m := &objectModel{object: o, class: b.classes[o]}
	if o.Info().HasError() {
		return m
	}
	switch o := o.(type) {
	case *schema.Table:
		m.structs = []*Struct{b.table(o, m.class)}
	case *schema.ComplexTypeTable:
		m.structs = []*Struct{b.complexType(o, m.class)}
	case *schema.View:
		st := &Struct{Name: m.class}
		st.Doc = b.doc(o, m.class+" maps the view "+o.QualifiedName()+".")
		if b.settings.POCO.TableNameMethod {
			st.TableName = b.tableName(&o.ObjectInfo)
		}
		m.structs = []*Struct{b.columns(st, o.Columns)}
	case *schema.TVP:
		st := &Struct{Name: m.class}
		st.Doc = b.doc(o, m.class+" maps the table type "+o.QualifiedName()+".")
		m.structs = []*Struct{b.columns(st, o.Columns)}
	case *schema.Procedure:
		m.structs = b.routine(o, m.class, "procedure", o.Parameters)
	case *schema.Function:
		m.structs = b.routine(o, m.class, "function", o.Parameters)
	}
	m.imports = imports(m.structs)
	return m
}

func (b *builder) table(t *schema.Table, class string) *Struct {
	st := &Struct{Name: class}
	st.Doc = b.doc(t, class+" maps the table "+t.QualifiedName()+".")
	if b.settings.POCO.TableNameMethod {
		st.TableName = b.tableName(&t.ObjectInfo)
	}
	fold := b.settings.ComplexTypes.Enabled && len(t.ComplexTypes) > 0
	for _, c := range t.Columns {
		if !fold {
			b.addColumn(st, c)
			continue
		}
		ct, ok := t.ComplexTypeFor(c)
		switch {
		case !ok:
			b.addColumn(st, c)
		case ct.Representative(t) == c:
			st.Fields = append(st.Fields, &Field{
				Name:        naming.GoName(naming.CleanName(ct.Name)),
				Type:        TypeRef{Name: b.classes[ct], Base: b.classes[ct]},
				Column:      c,
				ComplexType: ct,
			})
		}
	}
	reserved := b.uniqueFields(st)
	if b.settings.Navigation.Enabled && (b.settings.Navigation.JoinTables || !schema.IsJoinTable(t)) {
		st.Navigations = b.navigations(t, reserved)
	}
	b.finish(st)
	return st
}

func (b *builder) complexType(ct *schema.ComplexTypeTable, class string) *Struct {
	owners := make([]string, len(ct.Owners))
	for i, t := range ct.Owners {
		owners[i] = t.QualifiedName()
	}
	st := &Struct{Name: class}
	st.Doc = b.doc(ct, class+" groups the "+ct.Name+ct.Delimiter+"* columns of "+strings.Join(owners, ", ")+".")
	return b.columns(st, ct.Columns)
}

// routine builds the result struct over the result columns and the
// parameter struct of a procedure or function.
func (b *builder) routine(o schema.Object, class, kind string, params []*schema.Parameter) []*Struct {
	var structs []*Struct
	info := o.Info()
	if len(info.Columns) > 0 {
		st := &Struct{Name: class + "Result"}
		st.Doc = b.doc(o, st.Name+" holds a result row of the "+kind+" "+info.QualifiedName()+".")
		structs = append(structs, b.columns(st, info.Columns))
	}
	if b.settings.POCO.Parameters && len(params) > 0 {
		st := &Struct{Name: class + "Params"}
		st.Doc = []string{st.Name + " holds the parameters of the " + kind + " " + info.QualifiedName() + "."}
		for _, p := range params {
			f := &Field{Name: fieldName(p.Name), Column: parameterColumn(p)}
			if p.Direction != schema.DirIn {
				f.Comment = p.Direction.String()
			}
			st.Fields = append(st.Fields, f)
		}
		b.uniqueFields(st)
		b.finish(st)
		structs = append(structs, st)
	}
	return structs
}

// columns adds one field per column to st and finishes it.
func (b *builder) columns(st *Struct, cols []*schema.Column) *Struct {
	for _, c := range cols {
		b.addColumn(st, c)
	}
	b.uniqueFields(st)
	b.finish(st)
	return st
}

func (b *builder) addColumn(st *Struct, c *schema.Column) {
	f := &Field{Name: fieldName(c.Name), Column: c}
	if b.settings.POCO.Comments {
		f.Comment = c.Comment
	}
	st.Fields = append(st.Fields, f)
}

// uniqueFields makes field names unique and returns them. The TableName
// method name is reserved when it is emitted.
func (b *builder) uniqueFields(st *Struct) []string {
	cands := make([]naming.Candidate, len(st.Fields))
	for i, f := range st.Fields {
		cands[i] = naming.Candidate{Name: f.Name}
	}
	var reserved []string
	if st.TableName != "" {
		reserved = append(reserved, "TableName")
	}
	names := naming.Disambiguate(cands, reserved...)
	for i, f := range st.Fields {
		f.Name = names[i]
	}
	return append(names, reserved...)
}

// finish resolves field types, enums, tags and constructor statements once
// field names are final.
func (b *builder) finish(st *Struct) {
	poco := &b.settings.POCO
	for _, f := range st.Fields {
		if f.ComplexType != nil {
			f.Tag = structTag(poco.Tags, f.Name, f.ComplexType.Name, false)
			continue
		}
		var enumType string
		if f.Column.IsEnum() && poco.Enums == EnumTyped {
			enumType = b.enumName(st.Name + f.Name)
			st.Enums = append(st.Enums, newEnum(enumType, f.Column))
		}
		f.Type = b.types.column(f.Column, enumType)
		f.Tag = structTag(poco.Tags, f.Name, f.Column.Name, f.Type.Nillable)
	}
	for _, n := range st.Navigations {
		n.Tag = structTag(poco.Tags, n.Name, "-", true)
	}
	if !poco.Constructor {
		return
	}
	for _, f := range st.Fields {
		if f.ComplexType != nil {
			continue
		}
		if init, ok := b.defaults.column(f.Column, f.Name, f.Type, st.enumConsts(f.Column)); ok {
			st.Inits = append(st.Inits, init)
		}
	}
	for _, n := range st.Navigations {
		if n.Many {
			st.Inits = append(st.Inits, Init{Field: n.Name, Expr: "[]*" + n.Target + "{}", Type: TypeRef{Name: "[]*" + n.Target}})
		}
	}
}

// enumName returns name, or name with a "Type" suffix when a class of the
// run already uses it.
func (b *builder) enumName(name string) string {
	for {
		if _, ok := b.taken[name]; !ok {
			b.taken[name] = struct{}{}
			return name
		}
		name += "Type"
	}
}

func newEnum(name string, c *schema.Column) *Enum {
	e := &Enum{Name: name, Column: c}
	cands := make([]naming.Candidate, len(c.EnumValues))
	for i, v := range c.EnumValues {
		n := naming.GoName(naming.CleanName(v))
		if n == "" {
			n = "Empty"
		}
		cands[i] = naming.Candidate{Name: name + n}
	}
	for i, n := range naming.Disambiguate(cands, name) {
		e.Values = append(e.Values, EnumValue{Name: n, Value: c.EnumValues[i]})
	}
	return e
}

// doc returns the doc comment lines of an object struct.
func (b *builder) doc(o schema.Object, first string) []string {
	lines := []string{first}
	if b.settings.POCO.Comments && o.Info().Comment != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split(strings.TrimSpace(o.Info().Comment), "\n")...)
	}
	return lines
}

func (b *builder) tableName(info *schema.ObjectInfo) string {
	if !b.caps.SupportsSchemas {
		return info.Name
	}
	return info.QualifiedName()
}
