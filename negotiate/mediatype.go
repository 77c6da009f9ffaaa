package negotiate

import (
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/erraggy/resttools/internal/maputil"
)

// Match specificity levels. Higher is more specific; zero means no match.
const (
	specificityNone     = 0
	specificityWildcard = 1 // */*
	specificityType     = 2 // type/*
	specificityExact    = 3 // type/subtype
)

// MediaType is a parsed media type: lowered type and subtype plus any
// parameters. The zero value is invalid; build one with ParseMediaType.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// ParseMediaType parses a media type such as "application/json" or
// "text/plain;charset=utf-8". Type and subtype are lowered; parameters are
// preserved.
func ParseMediaType(s string) (MediaType, error) {
	mt, params, err := mime.ParseMediaType(s)
	if err != nil {
		return MediaType{}, fmt.Errorf("invalid media type %q: %w", s, err)
	}
	typ, sub, ok := strings.Cut(mt, "/")
	if !ok {
		return MediaType{}, fmt.Errorf("invalid media type %q: missing subtype", s)
	}
	return MediaType{Type: typ, Subtype: sub, Params: params}, nil
}

// MustParseMediaType is ParseMediaType for statically known values; it panics
// on error.
func MustParseMediaType(s string) MediaType {
	m, err := ParseMediaType(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String renders the media type with its parameters in sorted key order.
func (m MediaType) String() string {
	if len(m.Params) == 0 {
		return m.Type + "/" + m.Subtype
	}
	var b strings.Builder
	b.WriteString(m.Type)
	b.WriteByte('/')
	b.WriteString(m.Subtype)
	for _, k := range maputil.SortedKeys(m.Params) {
		b.WriteByte(';')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m.Params[k])
	}
	return b.String()
}

// IsWildcardType reports whether the type component is the * wildcard.
func (m MediaType) IsWildcardType() bool { return m.Type == "*" }

// IsWildcardSubtype reports whether the subtype component is the * wildcard.
func (m MediaType) IsWildcardSubtype() bool { return m.Subtype == "*" }

// Matches reports whether this media type, treated as a pattern, matches the
// concrete media type. Wildcards match anything on their component;
// parameters are ignored.
func (m MediaType) Matches(concrete MediaType) bool {
	if m.Type != "*" && m.Type != concrete.Type {
		return false
	}
	return m.Subtype == "*" || m.Subtype == concrete.Subtype
}

// specificityAgainst returns the match specificity of this media type treated
// as a client range against a concrete candidate, or specificityNone.
func (m MediaType) specificityAgainst(candidate MediaType) int {
	switch {
	case m.Type == "*" && m.Subtype == "*":
		return specificityWildcard
	case m.Type == candidate.Type && m.Subtype == "*":
		return specificityType
	case m.Type == candidate.Type && m.Subtype == candidate.Subtype:
		return specificityExact
	default:
		return specificityNone
	}
}

// MediaRange is one parsed Accept header entry: a media type pattern plus its
// quality weight. Q defaults to 1 when the header omits it.
type MediaRange struct {
	MediaType
	Q float64
}

// wildcardRange is what an absent or empty Accept header means.
var wildcardRange = MediaRange{
	MediaType: MediaType{Type: "*", Subtype: "*"},
	Q:         1,
}

// ParseAccept parses an Accept header into its ordered media ranges.
// Malformed entries are skipped rather than failing the whole header; an
// empty header (or one with no parseable entries) is treated as */*.
func ParseAccept(header string) []MediaRange {
	header = strings.TrimSpace(header)
	if header == "" {
		return []MediaRange{wildcardRange}
	}

	parts := strings.Split(header, ",")
	ranges := make([]MediaRange, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mt, err := ParseMediaType(part)
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := mt.Params["q"]; ok {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 || parsed > 1 {
				continue
			}
			q = parsed
			delete(mt.Params, "q")
		}
		ranges = append(ranges, MediaRange{MediaType: mt, Q: q})
	}

	if len(ranges) == 0 {
		return []MediaRange{wildcardRange}
	}
	return ranges
}
