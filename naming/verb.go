package naming

import (
	"strings"
	"unicode"
)

var (
	// actionStems are verb roots whose past-tense form is stem + "ed".
	actionStems = []string{
		"creat", "insert", "add", "modifi", "updat", "chang", "edit", "delet",
		"remov", "register", "record", "enter", "stamp", "post", "logg", "sync",
		"process", "import", "submitt", "approv",
	}
	actionForms = []string{"ed", "d", "ing", "ion", "e", ""}
	// Keywords that only denote an action when a verb form precedes them.
	guardedKeywords = []string{"date", "ship"}

	verbForms = func() []string {
		var forms []string
		for _, s := range actionStems {
			for _, f := range actionForms {
				forms = append(forms, s+f)
			}
		}
		return forms
	}()
)

// IsActionName reports whether a column name denotes the moment an action
// happened, such as "CreatedAt", "modified_on" or "LastUpdate". Names
// containing "date" or "ship" only qualify when a verb form ends right
// before that word, so "CreatedDate" does but "OrderDate" and "ShippedDate"
// do not.
func IsActionName(column string) bool {
	n := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, column)
	matches := verbMatches(n)
	if len(matches) == 0 {
		return false
	}
	for _, kw := range guardedKeywords {
		for off := 0; ; {
			i := strings.Index(n[off:], kw)
			if i < 0 {
				break
			}
			start, end := off+i, off+i+len(kw)
			if !covered(matches, start, end) && !endsAt(matches, start) {
				return false
			}
			off = start + 1
		}
	}
	return true
}

type span struct{ start, end int }

// verbMatches returns every occurrence of a verb form in n.
func verbMatches(n string) []span {
	var spans []span
	for i := range n {
		for _, f := range verbForms {
			if strings.HasPrefix(n[i:], f) {
				spans = append(spans, span{i, i + len(f)})
			}
		}
	}
	return spans
}

// covered reports whether [start, end) lies inside a verb form, as "date"
// does in "updated".
func covered(spans []span, start, end int) bool {
	for _, s := range spans {
		if s.start <= start && end <= s.end {
			return true
		}
	}
	return false
}

func endsAt(spans []span, pos int) bool {
	for _, s := range spans {
		if s.end == pos {
			return true
		}
	}
	return false
}
