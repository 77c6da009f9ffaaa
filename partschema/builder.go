package partschema

import (
	"regexp"
	"strings"

	"github.com/erraggy/resttools/internal/stringutil"
	"github.com/erraggy/resttools/resterrors"
)

// Builder accumulates partial configurations for one message part and freezes
// them into an immutable PartSchema.
//
// One Builder is created per declared element (a method parameter, a response
// object, a nested item or property) at registration time. It is fed zero or
// more Sources via Apply in precedence order (the most specific source is
// applied last) and Build resolves the accumulated state into a PartSchema.
//
// Builders are not safe for concurrent use and must not be touched after
// Build; all building happens single-threaded during application startup.
type Builder struct {
	in   Location
	name string

	// enum-valued fields are accumulated as raw strings and parsed strictly
	// in Build, so Apply never fails
	rawIn               string
	rawType             string
	rawFormat           string
	rawCollectionFormat string

	defaultVal string
	pattern    string
	enum       []string

	maximum    *float64
	minimum    *float64
	multipleOf *float64

	maxLength     *int
	minLength     *int
	maxItems      *int
	minItems      *int
	maxProperties *int
	minProperties *int

	required         *bool
	allowEmptyValue  *bool
	skipIfEmpty      *bool
	uniqueItems      *bool
	exclusiveMaximum *bool
	exclusiveMinimum *bool
	noValidate       *bool

	items                *Builder
	properties           map[string]*Builder
	additionalProperties *Builder

	codes []int

	serializerOverride string
	parserOverride     string

	built *PartSchema
}

// NewBuilder creates a Builder for a part at the given location.
func NewBuilder(in Location) *Builder {
	return &Builder{in: in}
}

// Apply merges one partial configuration into the accumulator and returns the
// Builder for chaining. Merge rules:
//
//   - Scalar fields with a long/short synonym pair resolve within the Source
//     via "first non-empty wins", independent of which alias supplied it.
//     Across Apply calls, a later non-empty value overrides an earlier one.
//   - Boolean fields keep the old value when the new Source does not supply
//     one, and take the new value when it does.
//   - Count fields treat nil and -1 both as "not supplied"; a later real
//     value overrides an earlier sentinel.
//   - Items, Properties and AdditionalProperties create nested Builders
//     lazily, only when a non-empty nested Source is supplied, and recurse
//     with the same merge algorithm.
//   - Codes accumulate as a set, preserving first-seen order.
//
// Apply never fails; unparsable tokens surface from Build.
func (b *Builder) Apply(src *Source) *Builder {
	if src.IsEmpty() {
		return b
	}

	applyString(&b.rawIn, src.In)
	applyString(&b.name, src.Name, src.N)
	applyString(&b.rawType, src.Type, src.T)
	applyString(&b.rawFormat, src.Format, src.F)
	applyString(&b.rawCollectionFormat, src.CollectionFormat, src.CF)
	applyString(&b.defaultVal, src.Default, src.DF)
	applyString(&b.pattern, src.Pattern, src.P)
	applyString(&b.serializerOverride, src.SerializerOverride)
	applyString(&b.parserOverride, src.ParserOverride)

	if enum := firstNonEmptySlice(src.Enum, src.E); len(enum) > 0 {
		b.enum = enum
	}

	applyFloat(&b.maximum, src.Maximum, src.Max)
	applyFloat(&b.minimum, src.Minimum, src.Min)
	applyFloat(&b.multipleOf, src.MultipleOf, src.MO)

	applyCount(&b.maxLength, src.MaxLength, src.MaxL)
	applyCount(&b.minLength, src.MinLength, src.MinL)
	applyCount(&b.maxItems, src.MaxItems, src.MaxI)
	applyCount(&b.minItems, src.MinItems, src.MinI)
	applyCount(&b.maxProperties, src.MaxProperties, src.MaxP)
	applyCount(&b.minProperties, src.MinProperties, src.MinP)

	applyBool(&b.required, src.Required, src.R)
	applyBool(&b.allowEmptyValue, src.AllowEmptyValue, src.AEV)
	applyBool(&b.skipIfEmpty, src.SkipIfEmpty, src.SIE)
	applyBool(&b.uniqueItems, src.UniqueItems, src.UI)
	applyBool(&b.exclusiveMaximum, src.ExclusiveMaximum, src.EMax)
	applyBool(&b.exclusiveMinimum, src.ExclusiveMinimum, src.EMin)
	applyBool(&b.noValidate, src.NoValidate)

	if !src.Items.IsEmpty() {
		if b.items == nil {
			b.items = NewBuilder(b.in)
		}
		b.items.Apply(src.Items)
	}
	if !src.AdditionalProperties.IsEmpty() {
		if b.additionalProperties == nil {
			b.additionalProperties = NewBuilder(b.in)
		}
		b.additionalProperties.Apply(src.AdditionalProperties)
	}
	for name, prop := range src.Properties {
		if prop.IsEmpty() {
			continue
		}
		if b.properties == nil {
			b.properties = make(map[string]*Builder)
		}
		if b.properties[name] == nil {
			b.properties[name] = NewBuilder(b.in)
		}
		b.properties[name].Apply(prop)
	}

	for _, code := range src.Codes {
		if !containsInt(b.codes, code) {
			b.codes = append(b.codes, code)
		}
	}

	return b
}

// Build resolves the accumulated sources into an immutable PartSchema.
// It parses type/format/collectionFormat strictly, compiles the pattern as a
// full-match regex, resolves sentinels to unset, applies the path-remainder
// rule, and recursively builds nested schemas. Any unparsable token returns a
// *resterrors.ConfigError; configuration errors abort startup and are never
// raised at request time.
//
// Build is idempotent: repeated calls return the same frozen schema.
func (b *Builder) Build() (*PartSchema, error) {
	if b.built != nil {
		return b.built, nil
	}

	s := &PartSchema{
		Name:               b.name,
		In:                 b.in,
		Enum:               b.enum,
		Maximum:            b.maximum,
		Minimum:            b.minimum,
		MultipleOf:         b.multipleOf,
		MaxLength:          b.maxLength,
		MinLength:          b.minLength,
		MaxItems:           b.maxItems,
		MinItems:           b.minItems,
		MaxProperties:      b.maxProperties,
		MinProperties:      b.minProperties,
		Required:           boolOf(b.required),
		AllowEmptyValue:    boolOf(b.allowEmptyValue),
		SkipIfEmpty:        boolOf(b.skipIfEmpty),
		UniqueItems:        boolOf(b.uniqueItems),
		ExclusiveMaximum:   boolOf(b.exclusiveMaximum),
		ExclusiveMinimum:   boolOf(b.exclusiveMinimum),
		NoValidate:         boolOf(b.noValidate),
		SerializerOverride: b.serializerOverride,
		ParserOverride:     b.parserOverride,
	}

	if b.rawIn != "" {
		in, err := ParseLocation(b.rawIn)
		if err != nil {
			return nil, err
		}
		s.In = in
	}

	var err error
	if s.Type, err = ParseType(b.rawType); err != nil {
		return nil, err
	}
	if s.Format, err = ParseFormat(b.rawFormat); err != nil {
		return nil, err
	}
	if s.CollectionFormat, err = ParseCollectionFormat(b.rawCollectionFormat); err != nil {
		return nil, err
	}

	if b.defaultVal != "" {
		dv := b.defaultVal
		s.Default = &dv
	}

	if b.pattern != "" {
		// anchor so that validation is a full-match test
		re, compileErr := regexp.Compile(`\A(?:` + b.pattern + `)\z`)
		if compileErr != nil {
			return nil, &resterrors.ConfigError{
				Option:  "pattern",
				Value:   b.pattern,
				Message: "invalid regular expression",
				Cause:   compileErr,
			}
		}
		s.Pattern = re
		s.RawPattern = b.pattern
	}

	if b.items != nil {
		if s.Items, err = b.items.Build(); err != nil {
			return nil, err
		}
	}
	if b.additionalProperties != nil {
		if s.AdditionalProperties, err = b.additionalProperties.Build(); err != nil {
			return nil, err
		}
	}
	if len(b.properties) > 0 {
		s.Properties = make(map[string]*PartSchema, len(b.properties))
		for name, pb := range b.properties {
			if s.Properties[name], err = pb.Build(); err != nil {
				return nil, err
			}
		}
	}

	if len(b.codes) > 0 {
		s.Codes = append([]int(nil), b.codes...)
	}

	// A path-remainder part matches whatever is left of the path, including
	// nothing, so it can never be required and must accept empty values.
	// This overrides whatever the applied sources declared.
	if s.In == LocationPath && strings.HasPrefix(s.Name, "/") {
		s.AllowEmptyValue = true
		s.Required = false
	}

	b.built = s
	return s, nil
}

// applyString sets dst to the first non-empty of vals, if any.
func applyString(dst *string, vals ...string) {
	if v := stringutil.FirstNonEmpty(vals...); v != "" {
		*dst = v
	}
}

// applyFloat sets dst to the first non-nil of vals, if any.
func applyFloat(dst **float64, vals ...*float64) {
	for _, v := range vals {
		if v != nil {
			*dst = v
			return
		}
	}
}

// applyCount sets dst to the first real (non-nil, non -1) count among vals.
func applyCount(dst **int, vals ...*int) {
	for _, v := range vals {
		if countSet(v) {
			*dst = v
			return
		}
	}
}

// applyBool sets dst to the first non-nil of vals, keeping the old value
// when none is supplied.
func applyBool(dst **bool, vals ...*bool) {
	for _, v := range vals {
		if v != nil {
			*dst = v
			return
		}
	}
}

func firstNonEmptySlice(vals ...[]string) []string {
	for _, v := range vals {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

func boolOf(p *bool) bool {
	return p != nil && *p
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
