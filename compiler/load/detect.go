package load

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/syssam/pocogen/schema"
)

// matcher votes for its dialect when it recognizes a connection string.
type matcher struct {
	dialect schema.Dialect
	schemes []string
	match   func(conn string) bool
}

var matchers = []matcher{
	{
		dialect: schema.SQLServer,
		schemes: []string{"sqlserver", "mssql"},
		match: func(conn string) bool {
			return hasKeyword(conn, "server", "data source", "initial catalog", "integrated security")
		},
	},
	{
		dialect: schema.MySQL,
		schemes: []string{"mysql", "mariadb"},
		match: func(conn string) bool {
			return strings.Contains(conn, "@tcp(") || strings.Contains(conn, "@unix(")
		},
	},
	{
		dialect: schema.Postgres,
		schemes: []string{"postgres", "postgresql"},
		match: func(conn string) bool {
			return hasKeyword(conn, "host", "dbname", "sslmode")
		},
	},
	{
		dialect: schema.SQLite,
		schemes: []string{"sqlite", "sqlite3", "file"},
		match: func(conn string) bool {
			if strings.Contains(conn, ":memory:") || strings.HasPrefix(conn, "file:") {
				return true
			}
			p, _, _ := strings.Cut(conn, "?")
			switch strings.ToLower(filepath.Ext(p)) {
			case ".db", ".sqlite", ".sqlite3":
				return true
			}
			return false
		},
	},
}

// DetectDialect returns the dialect of conn. An explicit dialect name wins
// over detection. Otherwise every dialect votes on the connection string and
// exactly one vote is required.
func DetectDialect(conn, explicit string) (schema.Dialect, error) {
	if explicit != "" {
		d, err := schema.ParseDialect(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoMatchingDialect, err)
		}
		return d, nil
	}
	conn = strings.TrimSpace(conn)
	if conn == "" {
		return "", ErrConnectionMissing
	}
	var scheme string
	if strings.Contains(conn, "://") {
		u, err := url.Parse(conn)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrConnectionInvalid, err)
		}
		scheme = strings.ToLower(u.Scheme)
	}
	var votes []schema.Dialect
	for _, m := range matchers {
		if m.vote(conn, scheme) {
			votes = append(votes, m.dialect)
		}
	}
	switch len(votes) {
	case 0:
		return "", ErrNoMatchingDialect
	case 1:
		return votes[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %v", ErrAmbiguousDialect, redact(conn), votes)
	}
}

func (m matcher) vote(conn, scheme string) bool {
	if scheme != "" {
		for _, s := range m.schemes {
			if s == scheme {
				return true
			}
		}
		return false
	}
	return m.match(conn)
}

// hasKeyword reports whether conn holds one of the given "key=" pairs, either
// at the start or after a separator.
func hasKeyword(conn string, keys ...string) bool {
	lower := strings.ToLower(conn)
	for _, k := range keys {
		k += "="
		for i := 0; ; {
			j := strings.Index(lower[i:], k)
			if j < 0 {
				break
			}
			at := i + j
			if at == 0 || strings.ContainsRune("; \t", rune(lower[at-1])) {
				return true
			}
			i = at + len(k)
		}
	}
	return false
}

// redact hides the password of a URL connection string.
func redact(conn string) string {
	u, err := url.Parse(conn)
	if err != nil || u.User == nil {
		return conn
	}
	return u.Redacted()
}
