package postgres

import (
	"strconv"
	"strings"
)

// bind rewrites ? placeholders to $1, $2, ... Question marks inside quoted
// literals are left alone.
func bind(query string, args []any) string {
	if len(args) == 0 || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 2*len(args))
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
