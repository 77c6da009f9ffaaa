package negotiate

import (
	"mime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/erraggy/resttools/resterrors"
)

// maxAcceptCacheSize is the upper bound on memoized parsed Accept headers.
// When exceeded, the cache is cleared to prevent unbounded memory growth from
// clients sending many distinct headers.
const maxAcceptCacheSize = 1000

// Negotiator selects producers for requests. Selection itself is pure; the
// only state is a cache of parsed Accept headers, so one Negotiator is safe
// for concurrent use across all requests.
type Negotiator struct {
	// acceptCache caches parsed Accept headers (sync.Map[string, []MediaRange])
	acceptCache sync.Map
	acceptCount atomic.Int64
}

// NewNegotiator returns a ready Negotiator.
func NewNegotiator() *Negotiator {
	return &Negotiator{}
}

// parseAcceptCached returns the parsed ranges for an Accept header, memoizing
// results. The count check and clear are not atomic; concurrent clears cost
// extra parsing, nothing else.
func (n *Negotiator) parseAcceptCached(header string) []MediaRange {
	if cached, ok := n.acceptCache.Load(header); ok {
		return cached.([]MediaRange)
	}

	ranges := ParseAccept(header)

	if n.acceptCount.Add(1) > maxAcceptCacheSize {
		n.acceptCache.Range(func(key, _ any) bool {
			n.acceptCache.Delete(key)
			return true
		})
		n.acceptCount.Store(1)
	}
	n.acceptCache.Store(header, ranges)
	return ranges
}

// SelectSerializer picks the serializer entry for an Accept header from the
// candidate list. Candidates are walked in declared order; the candidate
// whose media type matches the most specific acceptable range wins, and among
// equally specific matches the earlier candidate wins regardless of the
// client's quality ordering. The returned MediaType is the candidate's
// concrete media type that matched.
//
// When nothing matches the error is a *resterrors.NegotiationError with
// status 406 enumerating every candidate media type in order.
func (n *Negotiator) SelectSerializer(accept string, entries []Entry) (Entry, MediaType, error) {
	ranges := n.parseAcceptCached(accept)

	var (
		best     Entry
		bestType MediaType
		bestSpec = specificityNone
	)
	for _, e := range entries {
		for _, mt := range e.MediaTypes {
			spec := bestRangeSpecificity(ranges, mt)
			if spec > bestSpec {
				best, bestType, bestSpec = e, mt, spec
			}
		}
	}

	if bestSpec == specificityNone {
		return Entry{}, MediaType{}, &resterrors.NegotiationError{
			StatusCode: 406,
			Header:     "Accept",
			Value:      accept,
			Supported:  SupportedMediaTypes(entries),
		}
	}
	return best, bestType, nil
}

// bestRangeSpecificity returns the highest specificity at which any
// acceptable range matches the candidate. Ranges with q=0 explicitly refuse
// their pattern and never match.
func bestRangeSpecificity(ranges []MediaRange, candidate MediaType) int {
	best := specificityNone
	for _, r := range ranges {
		if r.Q <= 0 {
			continue
		}
		if spec := r.specificityAgainst(candidate); spec > best {
			best = spec
		}
	}
	return best
}

// SelectParser picks the parser entry for a request Content-Type from the
// candidate list. The header carries a single concrete value; its parameters
// are stripped and candidates are walked in order, candidate-side wildcards
// honored.
//
// When nothing matches the error is a *resterrors.NegotiationError with
// status 415 enumerating every candidate media type in order.
func (n *Negotiator) SelectParser(contentType string, entries []Entry) (Entry, error) {
	fail := func() error {
		return &resterrors.NegotiationError{
			StatusCode: 415,
			Header:     "Content-Type",
			Value:      contentType,
			Supported:  SupportedMediaTypes(entries),
		}
	}

	raw, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Entry{}, fail()
	}
	typ, sub, ok := strings.Cut(raw, "/")
	if !ok {
		return Entry{}, fail()
	}
	concrete := MediaType{Type: typ, Subtype: sub}

	for _, e := range entries {
		for _, mt := range e.MediaTypes {
			if mt.Matches(concrete) {
				return e, nil
			}
		}
	}
	return Entry{}, fail()
}
