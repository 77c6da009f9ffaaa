package partschema

import "regexp"

// PartSchema is the normalized, validated description of one HTTP message
// part: a header, query parameter, path segment, form field, or body.
//
// A PartSchema is produced by a Builder at registration time and is frozen
// from then on: it must not be mutated after Build and is safe for
// unsynchronized concurrent reads. Optional constraints use pointer fields;
// a nil pointer means the constraint is absent. Sentinel values from the
// declarative sources (-1 counts, empty strings) never appear here; the
// Builder resolves them to unset before freezing.
type PartSchema struct {
	// Name is the part name. A path part whose name begins with "/" is a
	// remainder segment and always has AllowEmptyValue=true, Required=false.
	Name string

	// In is the location of the part within the HTTP message.
	In Location

	// Required indicates the part must be present.
	Required bool

	// AllowEmptyValue permits the part to be present with an empty value.
	AllowEmptyValue bool

	// SkipIfEmpty causes empty values to be skipped during serialization
	// instead of emitted.
	SkipIfEmpty bool

	// Type is the data type of the part.
	Type Type

	// Format refines the data type.
	Format Format

	// CollectionFormat governs how array parts are packed into one string.
	// Only meaningful when Type is TypeArray.
	CollectionFormat CollectionFormat

	// Default is the raw default value applied when the part is absent.
	// Nil when no default was declared.
	Default *string

	// Pattern is the compiled, full-match-anchored value pattern.
	// Nil when no pattern was declared.
	Pattern *regexp.Regexp

	// RawPattern is the pattern as declared, before anchoring.
	RawPattern string

	// Enum is the set of allowed values, matched by exact string equality.
	Enum []string

	// Numeric constraints. Only meaningful for TypeNumber and TypeInteger.
	Maximum          *float64
	Minimum          *float64
	MultipleOf       *float64
	ExclusiveMaximum bool
	ExclusiveMinimum bool

	// Length and count constraints. MaxLength/MinLength count characters,
	// not bytes, and apply only to TypeString.
	MaxLength     *int
	MinLength     *int
	MaxItems      *int
	MinItems      *int
	MaxProperties *int
	MinProperties *int

	// UniqueItems requires array elements to be pairwise distinct.
	UniqueItems bool

	// Items describes the elements of an array part.
	Items *PartSchema

	// Properties describes named members of an object part.
	Properties map[string]*PartSchema

	// AdditionalProperties describes object members not named in Properties.
	AdditionalProperties *PartSchema

	// Codes are the HTTP status codes this schema applies to, for response
	// schemas. Empty means all codes.
	Codes []int

	// SerializerOverride and ParserOverride select a specific producer for
	// this part instead of the negotiated one.
	SerializerOverride string
	ParserOverride     string

	// NoValidate disables all constraint checks for this part.
	NoValidate bool
}

// IsRemainder reports whether this is a path-remainder part: a path-located
// part whose name begins with "/".
func (s *PartSchema) IsRemainder() bool {
	return s.In == LocationPath && len(s.Name) > 0 && s.Name[0] == '/'
}

// EffectiveCollectionFormat returns the collection format to use for array
// splitting, defaulting to CSV when none was declared.
func (s *PartSchema) EffectiveCollectionFormat() CollectionFormat {
	if s.CollectionFormat == CollectionNone {
		return CollectionCSV
	}
	return s.CollectionFormat
}

// AppliesToCode reports whether this schema applies to the given response
// status code. Schemas with no declared codes apply to all.
func (s *PartSchema) AppliesToCode(code int) bool {
	if len(s.Codes) == 0 {
		return true
	}
	for _, c := range s.Codes {
		if c == code {
			return true
		}
	}
	return false
}
