// Package resttools provides the declarative HTTP-message-part machinery used by
// REST request-handling layers: part schemas, content negotiation, and response
// dispatch.
//
// The library consists of four primary packages:
//
//   - partschema: compose declarative partial configurations into validated,
//     immutable schemas for individual HTTP message parts (headers, query
//     parameters, path segments, form fields, bodies) and validate coerced
//     values against them
//   - negotiate: select the serializer or parser whose declared media types best
//     match a client's Accept or Content-Type header, with per-operation
//     override lists that either replace or extend resource-level defaults
//   - dispatch: run produced result objects through an ordered chain of response
//     processors with a three-way outcome (not handled, handled, replaced)
//   - pipeline: tie the above together into a per-resource request/response
//     pipeline built once at registration time and safe for concurrent use
//
// # Quick Start
//
// Build a part schema from declarative sources and validate a value:
//
//	b := partschema.NewBuilder(partschema.LocationQuery)
//	b.Apply(&partschema.Source{Name: "tags", Type: "array", CollectionFormat: "csv"})
//	schema, err := b.Build()
//	if err != nil {
//		log.Fatal(err) // configuration errors are fatal at startup
//	}
//
//	v := partschema.NewValidator()
//	issues := v.Validate([]any{"a", "b"}, schema, "tags")
//
// Negotiate a serializer for a request:
//
//	n := negotiate.NewNegotiator()
//	entries := registry.SerializersFor(nil)
//	entry, mediaType, err := n.SelectSerializer(req.Header.Get("Accept"), entries)
//
// # Design
//
// All schema building and registry construction happens once during application
// startup and fails fast with configuration errors. The frozen structures are
// immutable and safe for unsynchronized concurrent reads; per-request work never
// mutates them.
package resttools
