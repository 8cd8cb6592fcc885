package naming

import (
	"strings"
	"unicode"
)

// Words splits s on separators and camel-case boundaries. Digits stay
// attached to the word they follow, so "Table2Name" yields "Table2", "Name".
func Words(s string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(s, isSeparator) {
		words = append(words, splitCamel(part)...)
	}
	return words
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// splitCamel splits a separator-free identifier. Every returned word is a
// substring of s and the words concatenate back to s.
func splitCamel(s string) []string {
	runes := []rune(s)
	var (
		words []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		if !unicode.IsUpper(cur) {
			continue
		}
		switch {
		case unicode.IsLower(prev), unicode.IsDigit(prev):
			// userInfo, Table2Name
		case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && !pluralTail(runes, i+1):
			// HTTPCode
		default:
			continue
		}
		words = append(words, string(runes[start:i]))
		start = i
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

// pluralTail reports a lone "s" at i that pluralizes the acronym before it,
// as in "UserIDs" or "IDsByName".
func pluralTail(runes []rune, i int) bool {
	return runes[i] == 's' && (i+1 == len(runes) || !unicode.IsLower(runes[i+1]))
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func isUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) < 0 && strings.IndexFunc(s, unicode.IsUpper) >= 0
}
