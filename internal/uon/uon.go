// Package uon implements a minimal reader for UON (URL-friendly Object
// Notation) literals, sufficient for decoding message parts that declare the
// UON format or the UONC collection format.
//
// The subset understood here:
//
//   - arrays: @(a,b,c), elements may themselves be quoted or nested
//   - quoted strings: 'ab~'c' with ~ as the escape character
//   - scalars: true, false, null, numbers, plain tokens
//
// Objects and deeper UON features belong to the format-specific marshalling
// engines and are out of scope.
package uon

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseArray parses a UON array literal of the form @(a,b,c) and returns the
// raw element strings with quoting resolved. An empty array @() yields an
// empty slice.
func ParseArray(s string) ([]string, error) {
	if !strings.HasPrefix(s, "@(") || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("invalid UON array literal %q: expected @(...)", s)
	}
	body := s[2 : len(s)-1]
	if body == "" {
		return []string{}, nil
	}

	var elems []string
	var cur strings.Builder
	depth := 0
	quoted := false
	escaped := false

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '~':
			escaped = true
			if !quoted {
				// escapes outside quotes are preserved verbatim for nested literals
				cur.WriteByte(c)
				escaped = false
			}
		case c == '\'':
			quoted = !quoted
			if depth > 0 {
				cur.WriteByte(c)
			}
		case quoted:
			cur.WriteByte(c)
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("invalid UON array literal %q: unbalanced parentheses", s)
			}
			cur.WriteByte(c)
		case c == ',' && depth == 0:
			elems = append(elems, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}

	if quoted {
		return nil, fmt.Errorf("invalid UON array literal %q: unterminated quote", s)
	}
	if depth != 0 {
		return nil, fmt.Errorf("invalid UON array literal %q: unbalanced parentheses", s)
	}
	elems = append(elems, cur.String())
	return elems, nil
}

// ParseValue parses a UON scalar literal into a Go value. Quoted strings
// become strings with escapes resolved; true/false become bools; null becomes
// nil; numeric tokens become int64 or float64; anything else is returned as
// the raw string.
func ParseValue(s string) (any, error) {
	if strings.HasPrefix(s, "'") {
		if len(s) < 2 || !strings.HasSuffix(s, "'") {
			return nil, fmt.Errorf("invalid UON string literal %q: unterminated quote", s)
		}
		return unescape(s[1 : len(s)-1]), nil
	}

	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return s, nil
}

// unescape resolves ~ escapes inside a quoted UON string.
func unescape(s string) string {
	if !strings.ContainsRune(s, '~') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '~' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
