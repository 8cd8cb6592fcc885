package gen

import (
	"strconv"
	"strings"

	"github.com/syssam/pocogen/schema"
)

// emitter renders models into a sink. Every step of the object layout is
// gated by the POCO settings.
type emitter struct {
	out  Sink
	poco *POCOSettings
	nav  *NavigationSettings
}

func (e *emitter) text(kind TextKind, parts ...string) {
	for _, p := range parts {
		e.out.Append(kind, p)
	}
}

func (e *emitter) comment(line string) {
	if line == "" {
		e.text(Comment, "//\n")
		return
	}
	e.text(Comment, "// "+line+"\n")
}

// preamble writes the header, the package clause and the import block.
func (e *emitter) preamble(header, pkg string, imports []string) {
	if header != "" {
		e.text(Comment, strings.TrimRight(header, "\n")+"\n\n")
	}
	e.text(Keyword, "package")
	e.text(Plain, " "+pkg+"\n\n")
	if len(imports) == 0 {
		return
	}
	e.text(Keyword, "import")
	e.text(Plain, " (\n")
	for i, p := range imports {
		if i > 0 && isStdlib(imports[i-1]) && !isStdlib(p) {
			e.text(Plain, "\n")
		}
		e.text(Plain, "\t")
		e.text(String, strconv.Quote(p))
		e.text(Plain, "\n")
	}
	e.text(Plain, ")\n\n")
}

// failure writes the error chain of o as a comment block in place of its body.
func (e *emitter) failure(o schema.Object, class string) {
	info := o.Info()
	e.text(Error, "// "+class+" ("+o.Kind().String()+" "+info.QualifiedName()+") could not be generated:\n")
	for _, msg := range schema.ErrorMessages(info.Err) {
		for _, line := range strings.Split(msg, "\n") {
			e.text(Error, "//\t"+line+"\n")
		}
	}
	e.text(Plain, "\n")
}

// object writes every struct of m.
func (e *emitter) object(m *objectModel) {
	for _, st := range m.structs {
		e.structure(st)
	}
}

// structure writes one struct in layout order: doc comment, declaration,
// members, navigation members, closing brace, TableName method, constructor
// and enum declarations.
func (e *emitter) structure(st *Struct) {
	if e.poco.Attributes {
		for _, line := range st.Doc {
			e.comment(line)
		}
	}
	if e.poco.Declaration {
		e.text(Keyword, "type")
		e.text(Plain, " ")
		e.text(TypeName, st.Name)
		e.text(Plain, " ")
		e.text(Keyword, "struct")
		e.text(Plain, " {\n")
	}
	if e.poco.Members {
		for _, f := range st.Fields {
			e.member(f.Name, f.Type.Name, f.Tag, f.Comment)
		}
	}
	if len(st.Navigations) > 0 {
		if e.poco.Members && len(st.Fields) > 0 {
			e.text(Plain, "\n")
		}
		for _, n := range st.Navigations {
			if e.nav.Comments {
				e.text(Comment, "\t// "+n.Doc()+"\n")
			}
			e.member(n.Name, n.TypeName(), n.Tag, "")
		}
	}
	if e.poco.Declaration {
		e.text(Plain, "}\n")
	}
	e.text(Plain, "\n")
	if st.TableName != "" {
		e.tableName(st)
	}
	if e.poco.Constructor && len(st.Inits) > 0 {
		e.constructor(st)
	}
	if e.poco.Enums == EnumTyped {
		for _, en := range st.Enums {
			e.enum(en)
		}
	}
}

func (e *emitter) member(name, typ, tag, comment string) {
	e.text(Plain, "\t"+name+" ")
	e.text(TypeName, typ)
	if tag != "" {
		e.text(Plain, " ")
		e.text(String, "`"+tag+"`")
	}
	if comment != "" {
		e.text(Comment, " // "+strings.ReplaceAll(comment, "\n", " "))
	}
	e.text(Plain, "\n")
}

func (e *emitter) tableName(st *Struct) {
	e.comment("TableName returns the name of the table backing " + st.Name + ".")
	e.text(Keyword, "func")
	e.text(Plain, " (")
	e.text(TypeName, st.Name)
	e.text(Plain, ") TableName() ")
	e.text(TypeName, "string")
	e.text(Plain, " {\n\t")
	e.text(Keyword, "return")
	e.text(Plain, " ")
	e.text(String, strconv.Quote(st.TableName))
	e.text(Plain, "\n}\n\n")
}

func (e *emitter) constructor(st *Struct) {
	const v = "v"
	e.comment("New" + st.Name + " returns a new " + st.Name + " with column defaults applied.")
	e.text(Keyword, "func")
	e.text(Plain, " New"+st.Name+"() *")
	e.text(TypeName, st.Name)
	e.text(Plain, " {\n\t"+v+" := &")
	e.text(TypeName, st.Name)
	e.text(Plain, "{}\n")
	for _, init := range st.Inits {
		kind := Plain
		if init.Disabled {
			kind = Comment
		}
		for _, stmt := range init.Statements(v) {
			e.text(kind, "\t"+stmt+"\n")
		}
	}
	e.text(Plain, "\t")
	e.text(Keyword, "return")
	e.text(Plain, " "+v+"\n}\n\n")
}

func (e *emitter) enum(en *Enum) {
	e.comment(en.Name + " is the type of the " + en.Column.Name + " column.")
	e.text(Keyword, "type")
	e.text(Plain, " ")
	e.text(TypeName, en.Name)
	e.text(Plain, " ")
	e.text(TypeName, "string")
	e.text(Plain, "\n\n")
	e.comment(en.Name + " values.")
	e.text(Keyword, "const")
	e.text(Plain, " (\n")
	for _, v := range en.Values {
		e.text(Plain, "\t"+v.Name+" ")
		e.text(TypeName, en.Name)
		e.text(Plain, " = ")
		e.text(String, strconv.Quote(v.Value))
		e.text(Plain, "\n")
	}
	e.text(Plain, ")\n\n")
}
