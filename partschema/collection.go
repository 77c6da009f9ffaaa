package partschema

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/resttools/internal/uon"
)

// collection format delimiters
const (
	csvDelim   = ","
	ssvDelim   = " "
	tsvDelim   = "\t"
	pipesDelim = "|"
)

// Split splits one raw part string into its elements according to the
// collection format. CSV, SSV, TSV and Pipes split on their delimiter; UONC
// parses the whole string as a UON array literal. Splitting then re-joining
// with the same format reproduces the original string for the delimiter
// formats.
//
// Multi cannot be split: the part arrives as multiple repeated key=value
// occurrences rather than one string, and callers must pass the repeated
// values directly (see CoerceValues).
func Split(raw string, cf CollectionFormat) ([]string, error) {
	switch cf {
	case CollectionNone, CollectionCSV:
		return strings.Split(raw, csvDelim), nil
	case CollectionSSV:
		return strings.Split(raw, ssvDelim), nil
	case CollectionTSV:
		return strings.Split(raw, tsvDelim), nil
	case CollectionPipes:
		return strings.Split(raw, pipesDelim), nil
	case CollectionUONC:
		return uon.ParseArray(raw)
	case CollectionMulti:
		return nil, fmt.Errorf("collection format %q has no single-string form", cf)
	default:
		return nil, fmt.Errorf("unknown collection format %d", cf)
	}
}

// Join packs elements into one part string, the inverse of Split.
func Join(elems []string, cf CollectionFormat) (string, error) {
	switch cf {
	case CollectionNone, CollectionCSV:
		return strings.Join(elems, csvDelim), nil
	case CollectionSSV:
		return strings.Join(elems, ssvDelim), nil
	case CollectionTSV:
		return strings.Join(elems, tsvDelim), nil
	case CollectionPipes:
		return strings.Join(elems, pipesDelim), nil
	case CollectionUONC:
		return "@(" + strings.Join(elems, ",") + ")", nil
	case CollectionMulti:
		return "", fmt.Errorf("collection format %q has no single-string form", cf)
	default:
		return "", fmt.Errorf("unknown collection format %d", cf)
	}
}

// Coerce converts one raw part string into the Go value described by the
// schema: integers become int64 (with an int32 range check for that format),
// numbers float64, booleans bool, arrays are split per the collection format
// and coerced element-wise, and string formats decode byte/binary/date
// values. A value that cannot be converted is a request-time coercion
// failure, reported by the caller as a validation issue, never a panic.
func Coerce(raw string, s *PartSchema) (any, error) {
	if s == nil {
		return raw, nil
	}

	switch s.Type {
	case TypeInteger:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid integer", raw)
		}
		if s.Format == FormatInt32 && (i > math.MaxInt32 || i < math.MinInt32) {
			return nil, fmt.Errorf("%d overflows int32", i)
		}
		return i, nil

	case TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid number", raw)
		}
		return f, nil

	case TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid boolean", raw)
		}
		return b, nil

	case TypeArray:
		elems, err := Split(raw, s.EffectiveCollectionFormat())
		if err != nil {
			return nil, err
		}
		return coerceElems(elems, s.Items)

	case TypeString, TypeNone:
		return coerceString(raw, s.Format)

	case TypeFile, TypeObject:
		// files and objects are decoded by the negotiated parser, not here
		return raw, nil

	default:
		return raw, nil
	}
}

// CoerceValues converts repeated raw occurrences of a part (the Multi
// collection format, or any pre-split source) into a typed element slice.
func CoerceValues(values []string, s *PartSchema) (any, error) {
	var items *PartSchema
	if s != nil {
		items = s.Items
	}
	return coerceElems(values, items)
}

// coerceElems coerces each element against the items schema. A nil items
// schema leaves elements as strings.
func coerceElems(elems []string, items *PartSchema) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		if items == nil {
			out[i] = e
			continue
		}
		v, err := Coerce(e, items)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// coerceString decodes string formats: byte (base64), binary (hex),
// binary-spaced (space-separated hex octets), date and date-time (RFC 3339),
// and uon (a UON scalar literal). Other formats pass the string through.
func coerceString(raw string, f Format) (any, error) {
	switch f {
	case FormatByte:
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not valid base64: %w", raw, err)
		}
		return b, nil

	case FormatBinary:
		b, err := hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not valid hex: %w", raw, err)
		}
		return b, nil

	case FormatBinarySpaced:
		b, err := hex.DecodeString(strings.ReplaceAll(raw, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("%q is not valid spaced hex: %w", raw, err)
		}
		return b, nil

	case FormatDate:
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid date (expected YYYY-MM-DD)", raw)
		}
		return t, nil

	case FormatDateTime:
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid date-time (expected RFC 3339)", raw)
		}
		return t, nil

	case FormatUON:
		return uon.ParseValue(raw)

	default:
		return raw, nil
	}
}
