// Package resterrors provides structured error types for resttools.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ConfigError: malformed declarative sources detected while building part
//     schemas or registries; fatal at startup, never raised at request time
//   - ValidationError: a part value that fails a declared constraint; surfaced
//     as a 4xx response
//   - NegotiationError: no serializer or parser matches the client's Accept or
//     Content-Type header; surfaced as 406 or 415
//   - DispatchError: no response processor accepted the output, the restart cap
//     was exceeded, or a write failed; surfaced as a 500-class response
//
// # Usage with errors.Is
//
//	schema, err := builder.Build()
//	if errors.Is(err, resterrors.ErrConfig) {
//	    // abort startup
//	}
package resterrors

import (
	"errors"
	"fmt"

	"github.com/erraggy/resttools/internal/stringutil"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrConfig indicates an invalid declarative configuration.
	ErrConfig = errors.New("configuration error")

	// ErrValidation indicates a part value failed a declared constraint.
	ErrValidation = errors.New("validation error")

	// ErrNegotiation indicates no producer matched the request's media types.
	ErrNegotiation = errors.New("negotiation error")

	// ErrDispatch indicates response dispatch failed.
	ErrDispatch = errors.New("dispatch error")
)

// ConfigError represents an invalid declarative configuration: an unparsable
// token in a part-schema source (bad regex, unknown type/format/collection
// format name) or a malformed registry definition.
//
// Configuration errors are raised at registration/startup time and are always
// fatal; they never occur at request time.
type ConfigError struct {
	// Option is the name of the problematic field or option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ValidationError represents a part value that failed a declared constraint.
type ValidationError struct {
	// Part is the name of the offending message part
	Part string
	// Location is where in the HTTP message the part lives
	Location string
	// Constraint names the violated constraint (e.g., "maxLength", "pattern")
	Constraint string
	// Expected describes the allowed value or bound
	Expected any
	// Actual is the offending value
	Actual any
	// Message describes the validation failure
	Message string
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Part != "" {
		if e.Location != "" {
			msg += " at " + e.Location + "." + e.Part
		} else {
			msg += " at " + e.Part
		}
	}
	if e.Constraint != "" {
		msg += " (" + e.Constraint + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NegotiationError represents a failed content negotiation: no serializer
// matched the Accept header (406) or no parser matched the Content-Type
// header (415).
//
// The message enumerates every supported media type in registry order; the
// enumeration is part of the observable contract and is returned verbatim in
// the HTTP response body.
type NegotiationError struct {
	// StatusCode is 406 for serializer selection, 415 for parser selection
	StatusCode int
	// Header is the request header that failed to match ("Accept" or "Content-Type")
	Header string
	// Value is the header value from the request
	Value string
	// Supported lists the media types of every candidate in effective order
	Supported []string
}

// Error returns a human-readable error message listing the supported media
// types in effective registry order.
func (e *NegotiationError) Error() string {
	return fmt.Sprintf("unsupported media-type in request header %q: %q\n\tSupported media-types: %s",
		e.Header, e.Value, stringutil.QuoteList(e.Supported))
}

// Is reports whether target matches this error type.
func (e *NegotiationError) Is(target error) bool {
	return target == ErrNegotiation
}

// DispatchError represents a response-dispatch failure: no processor accepted
// the output object, the restart cap was exceeded, or a processor failed while
// writing. Dispatch failures are 500-class and are never retried.
type DispatchError struct {
	// OutputType is the Go type of the output object that could not be dispatched
	OutputType string
	// Message describes the dispatch failure
	Message string
	// Cause is the underlying error, if any (e.g., a write failure)
	Cause error
}

// Error returns a human-readable error message.
func (e *DispatchError) Error() string {
	msg := "dispatch error"
	if e.OutputType != "" {
		msg += " for output type " + e.OutputType
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatch
}
