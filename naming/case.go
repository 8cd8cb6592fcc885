package naming

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casing selects how TransformName rewrites each word.
type Casing uint8

// Casings.
const (
	Preserve Casing = iota // words unchanged
	Pascal                 // OrderDate
	Camel                  // orderDate
	Lower                  // orderdate
	Upper                  // ORDERDATE
	Title                  // Orderdate per word, rest lower-cased
)

var casingNames = [...]string{"preserve", "pascal", "camel", "lower", "upper", "title"}

// String returns the casing name.
func (c Casing) String() string {
	if int(c) < len(casingNames) {
		return casingNames[c]
	}
	return fmt.Sprintf("casing(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Casing) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Casing) UnmarshalText(text []byte) error {
	for i, n := range casingNames {
		if strings.EqualFold(n, string(text)) {
			*c = Casing(i)
			return nil
		}
	}
	return fmt.Errorf("naming: unknown casing %q", text)
}

// TransformName splits name into words and joins them with separator after
// applying casing to every word.
func TransformName(name, separator string, casing Casing) string {
	words := Words(name)
	for i, w := range words {
		switch casing {
		case Pascal:
			words[i] = capitalize(w)
		case Camel:
			if i == 0 {
				words[i] = cases.Lower(language.Und).String(w)
			} else {
				words[i] = capitalize(w)
			}
		case Lower:
			words[i] = cases.Lower(language.Und).String(w)
		case Upper:
			words[i] = cases.Upper(language.Und).String(w)
		case Title:
			words[i] = cases.Title(language.English).String(w)
		}
	}
	return strings.Join(words, separator)
}

// GoName returns an exported Go identifier for name. Known initialisms are
// upper-cased, also when followed by digits, all upper-case words are title-cased and a leading digit is
// prefixed with "X".
func GoName(name string) string {
	words := Words(CleanName(name))
	for i, w := range words {
		switch {
		case isAcronym(w):
			words[i] = strings.ToUpper(w)
		case len(w) > 2 && strings.HasSuffix(w, "s") && isAcronym(w[:len(w)-1]):
			words[i] = strings.ToUpper(w[:len(w)-1]) + "s"
		case acronymDigits(w):
			words[i] = strings.ToUpper(w)
		case isUpper(w):
			words[i] = cases.Title(language.English).String(w)
		default:
			words[i] = capitalize(w)
		}
	}
	s := strings.Join(words, "")
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsDigit(r) {
		s = "X" + s
	}
	return s
}

// acronymDigits reports whether w is an initialism followed by digits,
// such as "ID1".
func acronymDigits(w string) bool {
	base := strings.TrimRight(w, "0123456789")
	return base != "" && base != w && isAcronym(base)
}

// LowerGoName returns GoName with the first word lower-cased, escaping Go
// keywords. Used for parameters and local names.
func LowerGoName(name string) string {
	s := GoName(name)
	words := splitCamel(s)
	if len(words) == 0 {
		return s
	}
	words[0] = strings.ToLower(words[0])
	return Escape(strings.Join(words, ""))
}

// Escape appends an underscore to Go keywords and predeclared identifiers
// that would shadow builtins in generated code.
func Escape(name string) string {
	if token.Lookup(name).IsKeyword() {
		return name + "_"
	}
	switch name {
	case "any", "error", "string", "len", "cap", "new", "nil", "true", "false", "iota":
		return name + "_"
	}
	return name
}

func capitalize(w string) string {
	r, n := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[n:]
}
