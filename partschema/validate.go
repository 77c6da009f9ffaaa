package partschema

import (
	"fmt"
	"math"

	"github.com/erraggy/resttools/internal/issues"
	"github.com/erraggy/resttools/internal/severity"
	"github.com/erraggy/resttools/internal/stringutil"
)

// ValidationError represents a single part validation issue.
// This is an alias to issues.Issue for consistency with the pipeline package.
type ValidationError = issues.Issue

// Severity levels for validation errors.
type Severity = severity.Severity

// Severity constants re-exported for convenience.
const (
	SeverityError    = severity.SeverityError
	SeverityWarning  = severity.SeverityWarning
	SeverityInfo     = severity.SeverityInfo
	SeverityCritical = severity.SeverityCritical
)

// multipleOfTolerance is the relative tolerance used when checking the
// multipleOf constraint on non-integer values.
const multipleOfTolerance = 1e-9

// Validator checks coerced part values against a PartSchema's constraints.
//
// Validation is a pure function over schema and value: the Validator carries
// no per-call state and is safe for concurrent use. By default the first
// failing constraint is reported; set CollectAll to gather every failure.
type Validator struct {
	// CollectAll reports every failed constraint instead of stopping at the
	// first failure.
	CollectAll bool
}

// NewValidator creates a Validator with default (first-failure) reporting.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a coerced value against the schema's constraints and
// returns the violations found (empty if valid). Only type-appropriate
// checks run: numeric constraints are skipped for non-numeric values,
// string constraints for non-strings, and so on. Presence checks (required,
// allowEmptyValue) belong to the binding layer, not here.
func (v *Validator) Validate(value any, s *PartSchema, part string) []ValidationError {
	if s == nil || s.NoValidate || value == nil {
		return nil
	}

	var errs []ValidationError

	switch val := value.(type) {
	case string:
		errs = v.validateString(val, s, part)
	case int64:
		errs = v.validateNumber(float64(val), true, s, part)
	case int:
		errs = v.validateNumber(float64(val), true, s, part)
	case float64:
		errs = v.validateNumber(val, false, s, part)
	case []any:
		errs = v.validateArray(val, s, part)
	case map[string]any:
		errs = v.validateObject(val, s, part)
	case map[string]struct{}:
		errs = v.validateSet(val, s, part)
	}

	return errs
}

// validateString checks length bounds (in characters, not bytes), the
// full-match pattern, and enum membership.
func (v *Validator) validateString(val string, s *PartSchema, part string) []ValidationError {
	var errs []ValidationError
	n := stringutil.RuneLen(val)

	if s.MinLength != nil && n < *s.MinLength {
		errs = append(errs, v.issue(part, s, "minLength",
			fmt.Sprintf("string length %d is less than minimum %d", n, *s.MinLength),
			*s.MinLength, n))
		if !v.CollectAll {
			return errs
		}
	}

	if s.MaxLength != nil && n > *s.MaxLength {
		errs = append(errs, v.issue(part, s, "maxLength",
			fmt.Sprintf("string length %d exceeds maximum %d", n, *s.MaxLength),
			*s.MaxLength, n))
		if !v.CollectAll {
			return errs
		}
	}

	if s.Pattern != nil && !s.Pattern.MatchString(val) {
		errs = append(errs, v.issue(part, s, "pattern",
			fmt.Sprintf("value does not match pattern %q", s.RawPattern),
			s.RawPattern, val))
		if !v.CollectAll {
			return errs
		}
	}

	if len(s.Enum) > 0 && !containsString(s.Enum, val) {
		errs = append(errs, v.issue(part, s, "enum",
			fmt.Sprintf("value %q is not one of the allowed values %s", val, stringutil.QuoteList(s.Enum)),
			s.Enum, val))
	}

	return errs
}

// validateNumber checks the numeric bounds and multipleOf. Integer-typed
// values use an exact multipleOf test; floats allow a small relative
// tolerance.
func (v *Validator) validateNumber(val float64, isInt bool, s *PartSchema, part string) []ValidationError {
	var errs []ValidationError

	if s.Minimum != nil {
		if s.ExclusiveMinimum && val <= *s.Minimum {
			errs = append(errs, v.issue(part, s, "exclusiveMinimum",
				fmt.Sprintf("value %v must be greater than %v", val, *s.Minimum),
				*s.Minimum, val))
		} else if !s.ExclusiveMinimum && val < *s.Minimum {
			errs = append(errs, v.issue(part, s, "minimum",
				fmt.Sprintf("value %v is less than minimum %v", val, *s.Minimum),
				*s.Minimum, val))
		}
		if len(errs) > 0 && !v.CollectAll {
			return errs
		}
	}

	if s.Maximum != nil {
		before := len(errs)
		if s.ExclusiveMaximum && val >= *s.Maximum {
			errs = append(errs, v.issue(part, s, "exclusiveMaximum",
				fmt.Sprintf("value %v must be less than %v", val, *s.Maximum),
				*s.Maximum, val))
		} else if !s.ExclusiveMaximum && val > *s.Maximum {
			errs = append(errs, v.issue(part, s, "maximum",
				fmt.Sprintf("value %v exceeds maximum %v", val, *s.Maximum),
				*s.Maximum, val))
		}
		if len(errs) > before && !v.CollectAll {
			return errs
		}
	}

	if s.MultipleOf != nil && *s.MultipleOf != 0 && !isMultipleOf(val, *s.MultipleOf, isInt) {
		errs = append(errs, v.issue(part, s, "multipleOf",
			fmt.Sprintf("value %v is not a multiple of %v", val, *s.MultipleOf),
			*s.MultipleOf, val))
		if !v.CollectAll {
			return errs
		}
	}

	if len(s.Enum) > 0 {
		str := formatNumber(val, isInt)
		if !containsString(s.Enum, str) {
			errs = append(errs, v.issue(part, s, "enum",
				fmt.Sprintf("value %s is not one of the allowed values %s", str, stringutil.QuoteList(s.Enum)),
				s.Enum, val))
		}
	}

	return errs
}

// validateArray checks item count bounds, element uniqueness, and each
// element against the items schema.
func (v *Validator) validateArray(val []any, s *PartSchema, part string) []ValidationError {
	var errs []ValidationError

	if s.MinItems != nil && len(val) < *s.MinItems {
		errs = append(errs, v.issue(part, s, "minItems",
			fmt.Sprintf("array has %d items, minimum is %d", len(val), *s.MinItems),
			*s.MinItems, len(val)))
		if !v.CollectAll {
			return errs
		}
	}

	if s.MaxItems != nil && len(val) > *s.MaxItems {
		errs = append(errs, v.issue(part, s, "maxItems",
			fmt.Sprintf("array has %d items, maximum is %d", len(val), *s.MaxItems),
			*s.MaxItems, len(val)))
		if !v.CollectAll {
			return errs
		}
	}

	if s.UniqueItems && hasDuplicates(val) {
		errs = append(errs, v.issue(part, s, "uniqueItems",
			"array items must be unique", nil, nil))
		if !v.CollectAll {
			return errs
		}
	}

	if s.Items != nil {
		for i, item := range val {
			sub := v.Validate(item, s.Items, fmt.Sprintf("%s[%d]", part, i))
			errs = append(errs, sub...)
			if len(sub) > 0 && !v.CollectAll {
				return errs
			}
		}
	}

	return errs
}

// validateSet checks a set-typed collection. Sets cannot contain duplicates,
// so uniqueItems is satisfied automatically; only count bounds and element
// constraints apply.
func (v *Validator) validateSet(val map[string]struct{}, s *PartSchema, part string) []ValidationError {
	var errs []ValidationError

	if s.MinItems != nil && len(val) < *s.MinItems {
		errs = append(errs, v.issue(part, s, "minItems",
			fmt.Sprintf("set has %d items, minimum is %d", len(val), *s.MinItems),
			*s.MinItems, len(val)))
		if !v.CollectAll {
			return errs
		}
	}

	if s.MaxItems != nil && len(val) > *s.MaxItems {
		errs = append(errs, v.issue(part, s, "maxItems",
			fmt.Sprintf("set has %d items, maximum is %d", len(val), *s.MaxItems),
			*s.MaxItems, len(val)))
		if !v.CollectAll {
			return errs
		}
	}

	if s.Items != nil {
		for elem := range val {
			sub := v.Validate(elem, s.Items, part+"[]")
			errs = append(errs, sub...)
			if len(sub) > 0 && !v.CollectAll {
				return errs
			}
		}
	}

	return errs
}

// validateObject checks property count bounds, each named property against
// its schema, required nested properties, and unnamed members against the
// additionalProperties schema.
func (v *Validator) validateObject(val map[string]any, s *PartSchema, part string) []ValidationError {
	var errs []ValidationError

	if s.MinProperties != nil && len(val) < *s.MinProperties {
		errs = append(errs, v.issue(part, s, "minProperties",
			fmt.Sprintf("object has %d properties, minimum is %d", len(val), *s.MinProperties),
			*s.MinProperties, len(val)))
		if !v.CollectAll {
			return errs
		}
	}

	if s.MaxProperties != nil && len(val) > *s.MaxProperties {
		errs = append(errs, v.issue(part, s, "maxProperties",
			fmt.Sprintf("object has %d properties, maximum is %d", len(val), *s.MaxProperties),
			*s.MaxProperties, len(val)))
		if !v.CollectAll {
			return errs
		}
	}

	for name, propSchema := range s.Properties {
		propVal, present := val[name]
		if !present {
			if propSchema.Required {
				errs = append(errs, v.issue(part+"."+name, s, "required",
					fmt.Sprintf("required property %q is missing", name), nil, nil))
				if !v.CollectAll {
					return errs
				}
			}
			continue
		}
		sub := v.Validate(propVal, propSchema, part+"."+name)
		errs = append(errs, sub...)
		if len(sub) > 0 && !v.CollectAll {
			return errs
		}
	}

	if s.AdditionalProperties != nil {
		for name, propVal := range val {
			if s.Properties != nil {
				if _, named := s.Properties[name]; named {
					continue
				}
			}
			sub := v.Validate(propVal, s.AdditionalProperties, part+"."+name)
			errs = append(errs, sub...)
			if len(sub) > 0 && !v.CollectAll {
				return errs
			}
		}
	}

	return errs
}

// issue constructs a ValidationError for the given constraint.
func (v *Validator) issue(part string, s *PartSchema, constraint, message string, expected, actual any) ValidationError {
	return ValidationError{
		Part:       part,
		Location:   s.In.String(),
		Constraint: constraint,
		Message:    message,
		Expected:   expected,
		Actual:     actual,
		Severity:   severity.SeverityError,
	}
}

// isMultipleOf reports whether val is an integral multiple of div. Integer
// values are tested exactly; floats within a small relative tolerance.
func isMultipleOf(val, div float64, isInt bool) bool {
	q := val / div
	if isInt {
		return q == math.Trunc(q)
	}
	_, frac := math.Modf(math.Abs(q))
	return frac < multipleOfTolerance || frac > 1-multipleOfTolerance
}

// formatNumber renders a numeric value the way it appears in enum sets.
func formatNumber(val float64, isInt bool) string {
	if isInt {
		return fmt.Sprintf("%d", int64(val))
	}
	return fmt.Sprintf("%v", val)
}

// hasDuplicates reports whether arr contains two elements that compare equal.
func hasDuplicates(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
