package pipeline

import (
	"sync"

	"github.com/erraggy/resttools/partschema"
)

// Issue is a single request-binding or validation problem.
// This is an alias to the partschema issue type so both layers report the
// same shape.
type Issue = partschema.ValidationError

// RequestResult holds everything extracted from one bound request: the typed
// part values per location and any issues found. It never carries an error
// past the request boundary; callers check Valid and surface Issues as a 4xx
// response.
type RequestResult struct {
	// Valid is true when binding found no issues.
	Valid bool

	// Issues contains every binding and validation problem found.
	Issues []Issue

	// Operation is the bound operation's name ("GET /pets/{petId}").
	Operation string

	// PathParts, QueryParts, HeaderParts and FormParts hold the coerced part
	// values keyed by part name.
	PathParts   map[string]any
	QueryParts  map[string]any
	HeaderParts map[string]any
	FormParts   map[string]any
}

// addIssue records a problem and marks the result invalid.
func (r *RequestResult) addIssue(issue Issue) {
	r.Valid = false
	r.Issues = append(r.Issues, issue)
}

// partsFor returns the value map for a location, nil for body.
func (r *RequestResult) partsFor(loc partschema.Location) map[string]any {
	switch loc {
	case partschema.LocationPath:
		return r.PathParts
	case partschema.LocationQuery:
		return r.QueryParts
	case partschema.LocationHeader:
		return r.HeaderParts
	case partschema.LocationFormData:
		return r.FormParts
	default:
		return nil
	}
}

// reset clears the result for reuse from the pool.
func (r *RequestResult) reset() {
	r.Valid = true
	r.Operation = ""
	r.Issues = r.Issues[:0]
	clear(r.PathParts)
	clear(r.QueryParts)
	clear(r.HeaderParts)
	clear(r.FormParts)
}

// Pool capacities.
const resultIssuesCap = 8

var requestResultPool = sync.Pool{
	New: func() any {
		return &RequestResult{
			Issues:      make([]Issue, 0, resultIssuesCap),
			PathParts:   make(map[string]any),
			QueryParts:  make(map[string]any),
			HeaderParts: make(map[string]any),
			FormParts:   make(map[string]any),
		}
	},
}

// getRequestResult retrieves a RequestResult from the pool and resets it.
func getRequestResult() *RequestResult {
	r := requestResultPool.Get().(*RequestResult)
	r.reset()
	return r
}

// ReleaseResult returns a RequestResult to the pool. Callers that are done
// with a result from BindRequest may release it to cut allocations on hot
// paths; a released result must not be used again.
func ReleaseResult(r *RequestResult) {
	if r == nil {
		return
	}
	requestResultPool.Put(r)
}
