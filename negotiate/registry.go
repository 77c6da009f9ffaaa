package negotiate

// inheritID marks the Inherit sentinel entry. The value never collides with a
// real producer ID because producer IDs are media-engine names.
const inheritID = "\x00inherit"

// Entry describes one producer candidate in a negotiation list: the producer
// ID and the media types it handles, in declaration order.
type Entry struct {
	ID         string
	MediaTypes []MediaType
}

// Inherit is a sentinel Entry. Its presence anywhere in an operation override
// list means the operation's entries are prepended to the resource list
// instead of replacing it; the sentinel itself never survives into an
// effective list.
var Inherit = Entry{ID: inheritID}

// IsInherit reports whether the entry is the Inherit sentinel.
func (e Entry) IsInherit() bool { return e.ID == inheritID }

// NewEntry builds an Entry from a producer ID and its media type strings.
func NewEntry(id string, mediaTypes ...string) (Entry, error) {
	e := Entry{ID: id, MediaTypes: make([]MediaType, 0, len(mediaTypes))}
	for _, s := range mediaTypes {
		mt, err := ParseMediaType(s)
		if err != nil {
			return Entry{}, err
		}
		e.MediaTypes = append(e.MediaTypes, mt)
	}
	return e, nil
}

// Registry holds a resource's ordered serializer and parser candidate lists.
// Operation-level overrides are resolved against it once, at registration.
type Registry struct {
	Serializers []Entry
	Parsers     []Entry
}

// SerializersFor resolves an operation's serializer override against the
// resource list. A nil override inherits the resource list unchanged.
func (r *Registry) SerializersFor(override []Entry) []Entry {
	return effective(override, r.Serializers)
}

// ParsersFor resolves an operation's parser override against the resource
// list. A nil override inherits the resource list unchanged.
func (r *Registry) ParsersFor(override []Entry) []Entry {
	return effective(override, r.Parsers)
}

// effective computes an operation's candidate list from its override and the
// resource base list:
//
//   - nil override: the base list
//   - override without Inherit: the override alone
//   - override containing Inherit: the override's real entries, in order,
//     prepended to the base list; the sentinel is removed wherever it sits
func effective(override, base []Entry) []Entry {
	if override == nil {
		return base
	}

	inherit := false
	own := make([]Entry, 0, len(override))
	for _, e := range override {
		if e.IsInherit() {
			inherit = true
			continue
		}
		own = append(own, e)
	}
	if !inherit {
		return own
	}
	return append(own, base...)
}

// SupportedMediaTypes flattens every media type of every entry, in effective
// order. This is the value enumerated in negotiation failures.
func SupportedMediaTypes(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		for _, mt := range e.MediaTypes {
			out = append(out, mt.String())
		}
	}
	return out
}
