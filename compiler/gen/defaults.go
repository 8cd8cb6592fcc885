package gen

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/pocogen/naming"
	"github.com/syssam/pocogen/schema"
)

// DefaultKind classifies a column default expression.
type DefaultKind uint8

// Default kinds.
const (
	// DefaultNone means the column has no usable default.
	DefaultNone DefaultKind = iota
	// DefaultLiteral is a constant. DefaultValue.Text holds it unquoted.
	DefaultLiteral
	// DefaultNow is the current local time.
	DefaultNow
	// DefaultNowUTC is the current UTC time.
	DefaultNowUTC
	// DefaultNewID is a freshly generated identifier.
	DefaultNewID
	// DefaultExpr is an expression that cannot be evaluated client side.
	DefaultExpr
)

// DefaultValue is a classified default expression.
type DefaultValue struct {
	Kind DefaultKind
	// Text is the unquoted literal or the raw expression.
	Text string
	// Quoted reports that the literal was a quoted string in the catalog.
	Quoted bool
}

// ParseDefault classifies a raw default expression. Enclosing parentheses,
// postgres casts and string quotes are removed. funcs maps lower-cased
// function names and keywords (with or without "()") to the system value
// they produce.
func ParseDefault(raw string, funcs map[string]DefaultKind) DefaultValue {
	s := stripParens(strings.TrimSpace(raw))
	s = stripCast(s)
	if s == "" || strings.EqualFold(s, "null") {
		return DefaultValue{}
	}
	lower := strings.ToLower(s)
	if k, ok := funcs[lower]; ok {
		return DefaultValue{Kind: k, Text: s}
	}
	if k, ok := funcs[strings.TrimSuffix(lower, "()")]; ok {
		return DefaultValue{Kind: k, Text: s}
	}
	// current_timestamp(6)
	if i := strings.IndexByte(lower, '('); i > 0 && strings.HasSuffix(lower, ")") && isDigits(lower[i+1:len(lower)-1]) {
		if k, ok := funcs[lower[:i]]; ok {
			return DefaultValue{Kind: k, Text: s}
		}
	}
	if text, ok := unquote(s); ok {
		return DefaultValue{Kind: DefaultLiteral, Text: text, Quoted: true}
	}
	if strings.ContainsAny(s, "()") {
		return DefaultValue{Kind: DefaultExpr, Text: s}
	}
	return DefaultValue{Kind: DefaultLiteral, Text: s}
}

// stripParens removes balanced parentheses wrapping the whole expression,
// as sqlserver stores "((0))".
func stripParens(s string) string {
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && closes(s) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// closes returns the index of the parenthesis closing s[0].
func closes(s string) int {
	depth, quoted := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripCast removes "::type" casts applied to the whole expression.
func stripCast(s string) string {
	depth, quoted := 0, false
	for i := 0; i+1 < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && c == ':' && s[i+1] == ':':
			return stripCast(stripParens(strings.TrimSpace(s[:i])))
		}
	}
	return s
}

// unquote returns the content of 'x', N'x' or E'x' with doubled quotes
// collapsed.
func unquote(s string) (string, bool) {
	if len(s) > 0 && strings.ContainsRune("NnEe", rune(s[0])) && len(s) > 1 && s[1] == '\'' {
		s = s[1:]
	}
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return "", false
	}
	body := s[1 : len(s)-1]
	if strings.Count(strings.ReplaceAll(body, "''", ""), "'") > 0 {
		return "", false
	}
	return strings.ReplaceAll(body, "''", "'"), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// =============================================================================
// Initializers
// =============================================================================

// Init is one statement of a generated constructor.
type Init struct {
	// Field is the struct member assigned.
	Field string
	// Expr is the Go expression assigned to the member.
	Expr string
	// Type is the member type.
	Type TypeRef
	// Disabled renders the statement as a comment, for defaults that could
	// not be translated.
	Disabled bool
	// Imports used by Expr.
	Imports []string
}

// Statements returns the Go statements of the initializer for receiver v.
func (i Init) Statements(v string) []string {
	target := v + "." + i.Field
	switch {
	case i.Disabled:
		return []string{"// " + target + " = " + i.Expr}
	case i.Type.Null != "":
		return []string{fmt.Sprintf("%s = %s{%s: %s, Valid: true}", target, i.Type.Name, i.Type.Null, i.Expr)}
	case i.Type.Pointer:
		return []string{
			fmt.Sprintf("%s = new(%s)", target, i.Type.Base),
			fmt.Sprintf("*%s = %s", target, i.Expr),
		}
	default:
		return []string{target + " = " + i.Expr}
	}
}

// defaultRenderer turns column defaults into constructor initializers.
type defaultRenderer struct {
	dialect Dialect
	poco    *POCOSettings
}

// column returns the initializer of member field for column c, if any.
// enumConsts maps enum values to their generated constant names.
func (r *defaultRenderer) column(c *schema.Column, field string, t TypeRef, enumConsts map[string]string) (Init, bool) {
	if c.Identity || c.Computed {
		return Init{}, false
	}
	init := Init{Field: field, Type: t}
	dv := DefaultValue{}
	if r.poco.Defaults && c.HasDefault() {
		dv = r.dialect.Default(c)
	}
	if dv.Kind == DefaultNone {
		if r.poco.ActionColumnsDefaultNow && t.Category == CategoryDateTime && naming.IsActionName(c.Name) {
			init.Expr, init.Imports = "time.Now()", []string{pkgTime}
			return init, true
		}
		return Init{}, false
	}
	expr, imports, ok := r.expr(c, t, dv, enumConsts)
	if !ok {
		init.Disabled = true
		init.Expr = strings.ReplaceAll(dv.Text, "\n", " ")
		if dv.Quoted {
			init.Expr = jen.Lit(dv.Text).GoString()
		}
		return init, true
	}
	init.Expr, init.Imports = expr, imports
	return init, true
}

// expr renders dv as a Go expression of type t.
func (r *defaultRenderer) expr(c *schema.Column, t TypeRef, dv DefaultValue, enumConsts map[string]string) (string, []string, bool) {
	switch dv.Kind {
	case DefaultNow, DefaultNowUTC:
		if t.Category != CategoryDateTime {
			return "", nil, false
		}
		if dv.Kind == DefaultNowUTC {
			return "time.Now().UTC()", []string{pkgTime}, true
		}
		return "time.Now()", []string{pkgTime}, true
	case DefaultNewID:
		switch t.Category {
		case CategoryGUID:
			return "uuid.New()", []string{pkgUUID}, true
		case CategoryString:
			return "uuid.NewString()", []string{pkgUUID}, true
		}
		return "", nil, false
	case DefaultLiteral:
		if c.IsEnum() {
			return enumLiteral(c, dv.Text, enumConsts)
		}
		return literal(t, dv.Text)
	}
	return "", nil, false
}

func enumLiteral(c *schema.Column, text string, consts map[string]string) (string, []string, bool) {
	for _, v := range c.EnumValues {
		if v != text {
			continue
		}
		if name, ok := consts[v]; ok {
			return name, nil, true
		}
		return jen.Lit(v).GoString(), nil, true
	}
	return "", nil, false
}

// literal renders text as a constant of the category of t.
func literal(t TypeRef, text string) (string, []string, bool) {
	switch t.Category {
	case CategoryBool:
		b, err := parseBool(text)
		if err != nil {
			return "", nil, false
		}
		return jen.Lit(b).GoString(), nil, true
	case CategoryByte, CategoryShort, CategoryInt, CategoryLong:
		bits := map[Category]int{CategoryByte: 8, CategoryShort: 16, CategoryInt: 32, CategoryLong: 64}[t.Category]
		if strings.HasPrefix(t.Base, "uint") {
			u, err := strconv.ParseUint(text, 10, bits)
			if err != nil {
				return "", nil, false
			}
			return strconv.FormatUint(u, 10), nil, true
		}
		i, err := strconv.ParseInt(text, 10, bits)
		if err != nil {
			return "", nil, false
		}
		return jen.Lit(int(i)).GoString(), nil, true
	case CategoryFloat, CategoryDecimal:
		if t.Base == "decimal.Decimal" {
			d, err := decimal.NewFromString(text)
			if err != nil {
				return "", nil, false
			}
			return "decimal.RequireFromString(" + jen.Lit(d.String()).GoString() + ")", []string{pkgDecimal}, true
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return "", nil, false
		}
		return jen.Lit(f).GoString(), nil, true
	case CategoryDateTime:
		tm, ok := parseTime(text)
		if !ok {
			return "", nil, false
		}
		return fmt.Sprintf("time.Date(%d, time.%s, %d, %d, %d, %d, %d, time.UTC)",
			tm.Year(), tm.Month(), tm.Day(), tm.Hour(), tm.Minute(), tm.Second(), tm.Nanosecond()), []string{pkgTime}, true
	case CategoryString:
		return jen.Lit(text).GoString(), nil, true
	case CategoryBytes:
		b, ok := parseHex(text)
		if !ok {
			return "", nil, false
		}
		vals := make([]jen.Code, len(b))
		for i, x := range b {
			vals[i] = jen.Lit(int(x))
		}
		return jen.Index().Byte().Values(vals...).GoString(), nil, true
	case CategoryGUID:
		id, err := uuid.Parse(text)
		if err != nil {
			return "", nil, false
		}
		return "uuid.MustParse(" + jen.Lit(id.String()).GoString() + ")", []string{pkgUUID}, true
	}
	return "", nil, false
}

func parseBool(text string) (bool, error) {
	s := strings.ToLower(text)
	if strings.HasPrefix(s, "b'") && strings.HasSuffix(s, "'") {
		s = s[2 : len(s)-1]
	}
	return strconv.ParseBool(s)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999",
}

func parseTime(text string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if tm, err := time.Parse(layout, text); err == nil {
			return tm.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseHex(text string) ([]byte, bool) {
	s := strings.ToLower(text)
	switch {
	case strings.HasPrefix(s, "0x"):
		s = s[2:]
	case strings.HasPrefix(s, `\x`):
		s = s[2:]
	case strings.HasPrefix(s, "x'") && strings.HasSuffix(s, "'"):
		s = s[2 : len(s)-1]
	default:
		return nil, false
	}
	b, err := hex.DecodeString(s)
	return b, err == nil
}
