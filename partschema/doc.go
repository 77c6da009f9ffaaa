// Package partschema composes declarative partial configurations into
// validated, immutable schemas for individual HTTP message parts, and
// validates coerced values against them.
//
// A "part" is one discrete piece of an HTTP message: a header, a query
// parameter, a path segment, a form field, or the body. Its legal shape is
// typically declared in several overlapping places (a parameter declaration,
// a class-level default, a response declaration), and this package merges
// those declarations into a single normalized PartSchema.
//
// # Building Schemas
//
// Create a Builder per declared element, feed it Sources in precedence order
// (most specific last), and freeze it:
//
//	b := partschema.NewBuilder(partschema.LocationQuery)
//	b.Apply(&partschema.Source{Name: "tags", Type: "array"})
//	b.Apply(&partschema.Source{CF: "pipes", MaxItems: ptr(10)})
//	schema, err := b.Build()
//
// Build fails with a *resterrors.ConfigError if any field contains an
// unparsable token (a bad regex, an unknown type/format/collectionFormat
// name). All building happens at registration time, before the server
// accepts traffic; configuration errors are fatal and never occur at request
// time.
//
// # Merge Rules
//
// Sources merge deterministically:
//
//   - scalar fields with a long/short synonym pair (Name/N, Type/T, ...)
//     resolve via "first non-empty wins" within one Source; later Apply calls
//     override earlier ones when they supply a value
//   - booleans keep the previous value unless the new Source supplies one;
//     string-encoded booleans ("true"/"false") parse identically to native
//   - count fields treat -1 and absent as "not set"
//   - nested items/properties/additionalProperties builders are created
//     lazily and recurse with the same algorithm
//   - a path part whose resolved name begins with "/" (a remainder segment)
//     always gets allowEmptyValue=true and required=false
//
// # Validation
//
// Validator checks a coerced value against a schema's constraints:
//
//	v := partschema.NewValidator()
//	if errs := v.Validate(value, schema, "petId"); len(errs) > 0 {
//	    // surface as a 4xx response
//	}
//
// Checks are type-appropriate only, string lengths count characters rather
// than bytes, pattern matching is a full-match test, and validation is a
// pure function with no side effects.
//
// # Collection Formats
//
// Array parts are packed into single strings using a collection format
// (csv, ssv, tsv, pipes, uonc) or arrive as repeated occurrences (multi).
// Split, Join, Coerce and CoerceValues convert between the wire form and
// typed element slices.
package partschema
