package partschema

import (
	"github.com/erraggy/resttools/internal/stringutil"
	"github.com/erraggy/resttools/resterrors"
)

// Type is the data type of a message part.
type Type int

// Part data types.
const (
	TypeNone Type = iota
	TypeString
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeArray
	TypeObject
	TypeFile
)

var typeNames = []string{"", "string", "number", "integer", "boolean", "array", "object", "file"}

// String returns the string form of the type, or "" for TypeNone.
func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return ""
	}
	return typeNames[t]
}

// ParseType parses a part type from its string form. The empty string parses
// to TypeNone. An unrecognized value is a configuration error naming the
// valid set.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if s == name {
			return Type(i), nil
		}
	}
	return TypeNone, &resterrors.ConfigError{
		Option:  "type",
		Value:   s,
		Message: "unknown part type, valid values: " + stringutil.QuoteList(typeNames[1:]),
	}
}

// Format is the data format of a message part, refining its Type.
type Format int

// Part data formats.
const (
	FormatNone Format = iota
	FormatInt32
	FormatInt64
	FormatFloat
	FormatDouble
	FormatByte
	FormatBinary
	FormatBinarySpaced
	FormatDate
	FormatDateTime
	FormatPassword
	FormatUON
)

var formatNames = []string{"", "int32", "int64", "float", "double", "byte", "binary", "binary-spaced", "date", "date-time", "password", "uon"}

// String returns the string form of the format, or "" for FormatNone.
func (f Format) String() string {
	if int(f) < 0 || int(f) >= len(formatNames) {
		return ""
	}
	return formatNames[f]
}

// ParseFormat parses a part format from its string form. The empty string
// parses to FormatNone. An unrecognized value is a configuration error naming
// the valid set.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	return FormatNone, &resterrors.ConfigError{
		Option:  "format",
		Value:   s,
		Message: "unknown part format, valid values: " + stringutil.QuoteList(formatNames[1:]),
	}
}

// CollectionFormat is the encoding convention used to pack multiple values
// into one part. Only meaningful when the part type is array.
type CollectionFormat int

// Collection formats.
const (
	// CollectionNone means no collection format was declared; CSV applies.
	CollectionNone CollectionFormat = iota
	// CollectionCSV splits on commas: "a,b,c".
	CollectionCSV
	// CollectionSSV splits on spaces: "a b c".
	CollectionSSV
	// CollectionTSV splits on tabs.
	CollectionTSV
	// CollectionPipes splits on pipes: "a|b|c".
	CollectionPipes
	// CollectionMulti means the part arrives as multiple repeated key=value
	// occurrences rather than one splittable string.
	CollectionMulti
	// CollectionUONC parses the whole part as a UON array literal: "@(a,b,c)".
	CollectionUONC
)

var collectionNames = []string{"", "csv", "ssv", "tsv", "pipes", "multi", "uonc"}

// String returns the string form of the collection format, or "" for CollectionNone.
func (c CollectionFormat) String() string {
	if int(c) < 0 || int(c) >= len(collectionNames) {
		return ""
	}
	return collectionNames[c]
}

// ParseCollectionFormat parses a collection format from its string form. The
// empty string parses to CollectionNone. An unrecognized value is a
// configuration error naming the valid set.
func ParseCollectionFormat(s string) (CollectionFormat, error) {
	for i, name := range collectionNames {
		if s == name {
			return CollectionFormat(i), nil
		}
	}
	return CollectionNone, &resterrors.ConfigError{
		Option:  "collectionFormat",
		Value:   s,
		Message: "unknown collection format, valid values: " + stringutil.QuoteList(collectionNames[1:]),
	}
}

// Location identifies where in an HTTP message a part lives.
type Location int

// Part locations.
const (
	LocationNone Location = iota
	LocationPath
	LocationQuery
	LocationHeader
	LocationFormData
	LocationBody
)

var locationNames = []string{"", "path", "query", "header", "formData", "body"}

// String returns the string form of the location, or "" for LocationNone.
func (l Location) String() string {
	if int(l) < 0 || int(l) >= len(locationNames) {
		return ""
	}
	return locationNames[l]
}

// ParseLocation parses a part location from its string form. An unrecognized
// value is a configuration error naming the valid set.
func ParseLocation(s string) (Location, error) {
	for i, name := range locationNames {
		if s == name {
			return Location(i), nil
		}
	}
	return LocationNone, &resterrors.ConfigError{
		Option:  "in",
		Value:   s,
		Message: "unknown part location, valid values: " + stringutil.QuoteList(locationNames[1:]),
	}
}
