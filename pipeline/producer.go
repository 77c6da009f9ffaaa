package pipeline

import (
	"github.com/segmentio/encoding/json"

	"github.com/erraggy/resttools/negotiate"
	"github.com/erraggy/resttools/resterrors"
)

// Producer is a format engine: it declares the media types it handles and
// exposes opaque encode/decode entry points. The pipeline never looks inside
// a representation; producers own the wire format entirely.
type Producer interface {
	// ID uniquely names the producer within a ProducerSet.
	ID() string
	// MediaTypes lists the media types this producer handles, most preferred
	// first.
	MediaTypes() []string
	// Marshal encodes a value into the producer's representation.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes the producer's representation into a value.
	Unmarshal(data []byte, v any) error
}

// ProducerSet is an immutable registry of producers keyed by ID. It is built
// once at startup and read concurrently without locks.
type ProducerSet struct {
	byID  map[string]Producer
	order []string
}

// NewProducerSet builds a ProducerSet. Duplicate or empty IDs and unparsable
// media types are configuration errors.
func NewProducerSet(producers ...Producer) (*ProducerSet, error) {
	set := &ProducerSet{
		byID:  make(map[string]Producer, len(producers)),
		order: make([]string, 0, len(producers)),
	}
	for _, p := range producers {
		id := p.ID()
		if id == "" {
			return nil, &resterrors.ConfigError{
				Option:  "producer",
				Message: "producer ID cannot be empty",
			}
		}
		if _, exists := set.byID[id]; exists {
			return nil, &resterrors.ConfigError{
				Option:  "producer",
				Value:   id,
				Message: "duplicate producer ID",
			}
		}
		for _, mt := range p.MediaTypes() {
			if _, err := negotiate.ParseMediaType(mt); err != nil {
				return nil, &resterrors.ConfigError{
					Option:  "producer",
					Value:   id,
					Message: "invalid media type",
					Cause:   err,
				}
			}
		}
		set.byID[id] = p
		set.order = append(set.order, id)
	}
	return set, nil
}

// Get returns the producer with the given ID.
func (s *ProducerSet) Get(id string) (Producer, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// IDs returns the producer IDs in registration order.
func (s *ProducerSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Entry builds the negotiation entry for a producer ID.
func (s *ProducerSet) Entry(id string) (negotiate.Entry, error) {
	p, ok := s.byID[id]
	if !ok {
		return negotiate.Entry{}, &resterrors.ConfigError{
			Option:  "producer",
			Value:   id,
			Message: "unknown producer ID",
		}
	}
	return negotiate.NewEntry(id, p.MediaTypes()...)
}

// JSONProducer is the built-in JSON format engine.
type JSONProducer struct{}

// ID implements Producer.
func (JSONProducer) ID() string { return "json" }

// MediaTypes implements Producer.
func (JSONProducer) MediaTypes() []string { return []string{"application/json"} }

// Marshal implements Producer.
func (JSONProducer) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements Producer.
func (JSONProducer) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Ensure JSONProducer implements Producer at compile time.
var _ Producer = JSONProducer{}
