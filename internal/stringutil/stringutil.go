// Package stringutil provides small string helpers shared across packages.
package stringutil

import (
	"strings"
	"unicode/utf8"
)

// RuneLen returns the length of s in characters, not bytes.
// Length constraints on message parts count characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// IsBlank reports whether s is empty or consists only of whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FirstNonEmpty returns the first non-empty string among vals, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// QuoteList renders vals as a bracketed, comma-separated list of
// single-quoted values: ['a','b','c']. Used in error messages that
// enumerate allowed or supported values.
func QuoteList(vals []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\'')
		b.WriteString(v)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}
