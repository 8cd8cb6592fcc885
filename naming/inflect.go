package naming

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

var (
	mu       sync.RWMutex
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GUID",
		"HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM",
		"RHS", "RPC", "SKU", "SLA", "SMTP", "SQL", "SSH", "SSN", "TCP", "TLS",
		"TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VAT", "VM",
		"XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym registers an additional initialism kept upper-case by GoName.
func AddAcronym(word string) {
	mu.Lock()
	defer mu.Unlock()
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func isAcronym(word string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := acronyms[strings.ToUpper(word)]
	return ok
}

// Singularize returns raw with its last word in singular form. The last word
// is the final camel-case word of the last underscore-separated segment. If
// that word contains a digit, raw is returned unchanged.
func Singularize(raw string) string {
	return inflectTail(raw, func(w string) string {
		if n := len(w); n > 2 && w[n-1] == 's' && isAcronym(w[:n-1]) {
			return w[:n-1]
		}
		mu.RLock()
		defer mu.RUnlock()
		return rules.Singularize(w)
	})
}

// Pluralize returns raw with its last word in plural form, following the same
// rules as Singularize.
func Pluralize(raw string) string {
	return inflectTail(raw, func(w string) string {
		if isAcronym(w) {
			return w + "s"
		}
		mu.RLock()
		defer mu.RUnlock()
		return rules.Pluralize(w)
	})
}

func inflectTail(raw string, fn func(string) string) string {
	segment := raw
	if i := strings.LastIndex(raw, "_"); i >= 0 {
		segment = raw[i+1:]
	}
	words := splitCamel(segment)
	if len(words) == 0 {
		return raw
	}
	last := words[len(words)-1]
	if hasDigit(last) {
		return raw
	}
	inflected := matchShape(last, fn(strings.ToLower(last)))
	if inflected == "" || inflected == last {
		return raw
	}
	return raw[:len(raw)-len(last)] + inflected
}

// matchShape makes the casing of inflected follow the casing of word: all
// upper-case words stay upper-case and a leading capital is kept.
func matchShape(word, inflected string) string {
	switch {
	case inflected == "":
		return inflected
	case len(word) > 1 && isUpper(word):
		if isAcronym(word) && strings.HasSuffix(inflected, "s") {
			return strings.ToUpper(inflected[:len(inflected)-1]) + "s"
		}
		return strings.ToUpper(inflected)
	case len(word) > 2 && strings.HasSuffix(word, "s") && isUpper(word[:len(word)-1]):
		return strings.ToUpper(inflected)
	default:
		w, _ := utf8.DecodeRuneInString(word)
		r, n := utf8.DecodeRuneInString(inflected)
		if unicode.IsUpper(w) && !unicode.IsUpper(r) {
			return string(unicode.ToUpper(r)) + inflected[n:]
		}
		return inflected
	}
}
