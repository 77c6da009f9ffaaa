package partschema

import (
	"errors"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/resttools/resterrors"
)

// Source is one partial configuration for a message part, derived from a
// single declaration site (a parameter declaration, a class-level default, a
// response declaration, an items declaration).
//
// Source is a patch: nil pointers and empty strings mean "not supplied", and
// a Builder folds any number of Sources together using the merge rules
// documented on Builder.Apply. Several scalar fields carry a short-form
// synonym (Name/N, Type/T, ...); within one Source the first non-empty of the
// pair wins, independent of which alias supplied it.
//
// Count fields additionally treat -1 as "not supplied", so callers populating
// a Source from a record format without optional fields can pass -1 instead
// of nil.
type Source struct {
	// In is the part location. Only consulted on the first Apply; subsequent
	// non-empty values must agree.
	In string

	Name string
	N    string

	Type string
	T    string

	Format string
	F      string

	CollectionFormat string
	CF               string

	Default string
	DF      string

	Pattern string
	P       string

	Enum []string
	E    []string

	Maximum    *float64
	Max        *float64
	Minimum    *float64
	Min        *float64
	MultipleOf *float64
	MO         *float64

	MaxLength     *int
	MaxL          *int
	MinLength     *int
	MinL          *int
	MaxItems      *int
	MaxI          *int
	MinItems      *int
	MinI          *int
	MaxProperties *int
	MaxP          *int
	MinProperties *int
	MinP          *int

	Required         *bool
	R                *bool
	AllowEmptyValue  *bool
	AEV              *bool
	SkipIfEmpty      *bool
	SIE              *bool
	UniqueItems      *bool
	UI               *bool
	ExclusiveMaximum *bool
	EMax             *bool
	ExclusiveMinimum *bool
	EMin             *bool
	NoValidate       *bool

	Items                *Source
	Properties           map[string]*Source
	AdditionalProperties *Source

	Codes []int

	SerializerOverride string
	ParserOverride     string
}

// IsEmpty reports whether the source supplies nothing at all. Empty nested
// sources do not cause nested builders to be created.
func (s *Source) IsEmpty() bool {
	if s == nil {
		return true
	}
	switch {
	case s.In != "", s.Name != "", s.N != "", s.Type != "", s.T != "",
		s.Format != "", s.F != "", s.CollectionFormat != "", s.CF != "",
		s.Default != "", s.DF != "", s.Pattern != "", s.P != "",
		s.SerializerOverride != "", s.ParserOverride != "":
		return false
	case len(s.Enum) > 0, len(s.E) > 0, len(s.Codes) > 0, len(s.Properties) > 0:
		return false
	case s.Maximum != nil, s.Max != nil, s.Minimum != nil, s.Min != nil,
		s.MultipleOf != nil, s.MO != nil:
		return false
	case countSet(s.MaxLength), countSet(s.MaxL), countSet(s.MinLength), countSet(s.MinL),
		countSet(s.MaxItems), countSet(s.MaxI), countSet(s.MinItems), countSet(s.MinI),
		countSet(s.MaxProperties), countSet(s.MaxP), countSet(s.MinProperties), countSet(s.MinP):
		return false
	case s.Required != nil, s.R != nil, s.AllowEmptyValue != nil, s.AEV != nil,
		s.SkipIfEmpty != nil, s.SIE != nil, s.UniqueItems != nil, s.UI != nil,
		s.ExclusiveMaximum != nil, s.EMax != nil, s.ExclusiveMinimum != nil, s.EMin != nil,
		s.NoValidate != nil:
		return false
	case !s.Items.IsEmpty(), !s.AdditionalProperties.IsEmpty():
		return false
	}
	return true
}

// countSet reports whether a count field carries a real value: non-nil and
// not the -1 sentinel.
func countSet(p *int) bool {
	return p != nil && *p != -1
}

// ParseOptBool converts a declarative boolean value into an optional bool.
// Accepted inputs: nil (absent), native bools, and string-encoded booleans
// ("true"/"false", as parsed by strconv.ParseBool). The empty string is
// treated as absent.
func ParseOptBool(v any) (*bool, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return &b, nil
	case string:
		if b == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, &resterrors.ConfigError{
				Option:  "boolean",
				Value:   b,
				Message: "not a valid boolean",
				Cause:   err,
			}
		}
		return &parsed, nil
	default:
		return nil, &resterrors.ConfigError{
			Option:  "boolean",
			Value:   v,
			Message: fmt.Sprintf("unsupported boolean type %T", v),
		}
	}
}

// sourceDoc is the YAML shape of a Source. Boolean and numeric fields are
// decoded as `any` so that string-encoded values ("true", "-1") are accepted
// identically to native ones.
type sourceDoc struct {
	In                   string                `yaml:"in"`
	Name                 string                `yaml:"name"`
	Type                 string                `yaml:"type"`
	Format               string                `yaml:"format"`
	CollectionFormat     string                `yaml:"collectionFormat"`
	Default              string                `yaml:"default"`
	Pattern              string                `yaml:"pattern"`
	Enum                 []string              `yaml:"enum"`
	Maximum              any                   `yaml:"maximum"`
	Minimum              any                   `yaml:"minimum"`
	MultipleOf           any                   `yaml:"multipleOf"`
	MaxLength            any                   `yaml:"maxLength"`
	MinLength            any                   `yaml:"minLength"`
	MaxItems             any                   `yaml:"maxItems"`
	MinItems             any                   `yaml:"minItems"`
	MaxProperties        any                   `yaml:"maxProperties"`
	MinProperties        any                   `yaml:"minProperties"`
	Required             any                   `yaml:"required"`
	AllowEmptyValue      any                   `yaml:"allowEmptyValue"`
	SkipIfEmpty          any                   `yaml:"skipIfEmpty"`
	UniqueItems          any                   `yaml:"uniqueItems"`
	ExclusiveMaximum     any                   `yaml:"exclusiveMaximum"`
	ExclusiveMinimum     any                   `yaml:"exclusiveMinimum"`
	NoValidate           any                   `yaml:"noValidate"`
	Items                *sourceDoc            `yaml:"items"`
	Properties           map[string]*sourceDoc `yaml:"properties"`
	AdditionalProperties *sourceDoc            `yaml:"additionalProperties"`
	Codes                []int                 `yaml:"codes"`
	SerializerOverride   string                `yaml:"serializer"`
	ParserOverride       string                `yaml:"parser"`
}

// SourceFromYAML decodes one Source from a YAML document. Boolean fields
// accept native and string-encoded values; count fields accept integers,
// numeric strings, and the -1 sentinel. Any unparsable token is a
// configuration error.
func SourceFromYAML(data []byte) (*Source, error) {
	var doc sourceDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &resterrors.ConfigError{
			Option:  "source",
			Message: "invalid YAML",
			Cause:   err,
		}
	}
	return doc.toSource()
}

// UnmarshalYAML lets a Source be decoded as part of a larger YAML document,
// with the same flexible field handling as SourceFromYAML.
func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	var doc sourceDoc
	if err := value.Decode(&doc); err != nil {
		return &resterrors.ConfigError{
			Option:  "source",
			Message: "invalid YAML",
			Cause:   err,
		}
	}
	parsed, err := doc.toSource()
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// toSource converts the YAML shape into a Source, parsing flexible fields.
func (d *sourceDoc) toSource() (*Source, error) {
	if d == nil {
		return nil, nil
	}

	src := &Source{
		In:                 d.In,
		Name:               d.Name,
		Type:               d.Type,
		Format:             d.Format,
		CollectionFormat:   d.CollectionFormat,
		Default:            d.Default,
		Pattern:            d.Pattern,
		Enum:               d.Enum,
		Codes:              d.Codes,
		SerializerOverride: d.SerializerOverride,
		ParserOverride:     d.ParserOverride,
	}

	var err error
	if src.Maximum, err = parseOptFloat("maximum", d.Maximum); err != nil {
		return nil, err
	}
	if src.Minimum, err = parseOptFloat("minimum", d.Minimum); err != nil {
		return nil, err
	}
	if src.MultipleOf, err = parseOptFloat("multipleOf", d.MultipleOf); err != nil {
		return nil, err
	}

	counts := []struct {
		name string
		raw  any
		dst  **int
	}{
		{"maxLength", d.MaxLength, &src.MaxLength},
		{"minLength", d.MinLength, &src.MinLength},
		{"maxItems", d.MaxItems, &src.MaxItems},
		{"minItems", d.MinItems, &src.MinItems},
		{"maxProperties", d.MaxProperties, &src.MaxProperties},
		{"minProperties", d.MinProperties, &src.MinProperties},
	}
	for _, c := range counts {
		if *c.dst, err = parseOptCount(c.name, c.raw); err != nil {
			return nil, err
		}
	}

	bools := []struct {
		name string
		raw  any
		dst  **bool
	}{
		{"required", d.Required, &src.Required},
		{"allowEmptyValue", d.AllowEmptyValue, &src.AllowEmptyValue},
		{"skipIfEmpty", d.SkipIfEmpty, &src.SkipIfEmpty},
		{"uniqueItems", d.UniqueItems, &src.UniqueItems},
		{"exclusiveMaximum", d.ExclusiveMaximum, &src.ExclusiveMaximum},
		{"exclusiveMinimum", d.ExclusiveMinimum, &src.ExclusiveMinimum},
		{"noValidate", d.NoValidate, &src.NoValidate},
	}
	for _, b := range bools {
		v, perr := ParseOptBool(b.raw)
		if perr != nil {
			var cfgErr *resterrors.ConfigError
			if errors.As(perr, &cfgErr) {
				cfgErr.Option = b.name
			}
			return nil, perr
		}
		*b.dst = v
	}

	if src.Items, err = d.Items.toSource(); err != nil {
		return nil, err
	}
	if src.AdditionalProperties, err = d.AdditionalProperties.toSource(); err != nil {
		return nil, err
	}
	if len(d.Properties) > 0 {
		src.Properties = make(map[string]*Source, len(d.Properties))
		for name, prop := range d.Properties {
			ps, perr := prop.toSource()
			if perr != nil {
				return nil, perr
			}
			src.Properties[name] = ps
		}
	}

	return src, nil
}

// parseOptFloat parses an optional numeric field that may arrive as a YAML
// number or a numeric string.
func parseOptFloat(name string, v any) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case int64:
		f := float64(n)
		return &f, nil
	case uint64:
		f := float64(n)
		return &f, nil
	case string:
		if n == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil, &resterrors.ConfigError{Option: name, Value: n, Message: "not a valid number", Cause: err}
		}
		return &f, nil
	default:
		return nil, &resterrors.ConfigError{Option: name, Value: v, Message: fmt.Sprintf("unsupported number type %T", v)}
	}
}

// parseOptCount parses an optional count field that may arrive as a YAML
// integer, a numeric string, or the -1 sentinel.
func parseOptCount(name string, v any) (*int, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case int:
		return &n, nil
	case int64:
		i := int(n)
		return &i, nil
	case uint64:
		i := int(n)
		return &i, nil
	case string:
		if n == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(n)
		if err != nil {
			return nil, &resterrors.ConfigError{Option: name, Value: n, Message: "not a valid integer", Cause: err}
		}
		return &i, nil
	default:
		return nil, &resterrors.ConfigError{Option: name, Value: v, Message: fmt.Sprintf("unsupported count type %T", v)}
	}
}
