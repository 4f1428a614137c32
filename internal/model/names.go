package model

import (
	"strings"
	"unicode"
)

// NameWords splits a column name into lower-case words at non-letters and at
// lower-to-upper case changes, so "ReportDateTime" gives report, date, time.
func NameWords(name string) []string {
	var (
		out  []string
		cur  strings.Builder
		prev rune
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			flush()
			prev = r
			continue
		}
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			flush()
		}
		cur.WriteRune(r)
		prev = r
	}
	flush()
	return out
}
