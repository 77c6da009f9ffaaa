// Package severity provides severity level constants and utilities
// for issues reported by the partschema and pipeline packages.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of an issue found while validating
// an HTTP message part or binding a request.
type Severity int

const (
	// SeverityError indicates a constraint violation that makes the part invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates a best-practice violation or a recommendation
	// that does not prevent processing but should be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates a part that cannot be processed at all.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
