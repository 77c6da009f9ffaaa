// Package issues provides a unified issue type for part-validation and
// request-binding problems.
package issues

import (
	"fmt"

	"github.com/erraggy/resttools/internal/severity"
)

// Issue represents a single problem found while validating a message part
// or binding a request.
type Issue struct {
	// Part is the name of the message part the issue applies to
	// (e.g., "petId", "X-Rate-Limit", "body")
	Part string
	// Location is where in the HTTP message the part lives
	// (e.g., "query", "header", "path", "formData", "body")
	Location string
	// Constraint names the violated constraint (e.g., "maxLength", "pattern",
	// "enum", "required"). Empty for issues not tied to a single constraint.
	Constraint string
	// Message is a human-readable description of the issue
	Message string
	// Expected describes the allowed value or bound (optional)
	Expected any
	// Actual is the offending value (optional)
	Actual any
	// Severity indicates the severity level of the issue
	Severity severity.Severity
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	loc := i.Part
	if i.Location != "" {
		loc = i.Location + "." + i.Part
	}
	if i.Constraint != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", i.Severity, loc, i.Constraint, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, loc, i.Message)
}
