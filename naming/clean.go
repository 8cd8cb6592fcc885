package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CleanName turns a raw database identifier into something usable as a Go
// identifier: spaces, hyphens and other invalid characters become
// underscores, and a leading digit is prefixed with an underscore.
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsDigit(r) {
		s = "_" + s
	}
	return s
}
