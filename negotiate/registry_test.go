package negotiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, id string, mediaTypes ...string) Entry {
	t.Helper()
	e, err := NewEntry(id, mediaTypes...)
	require.NoError(t, err)
	return e
}

func entryIDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestNewEntry(t *testing.T) {
	e := mustEntry(t, "json", "application/json", "application/*+json")
	assert.Equal(t, "json", e.ID)
	require.Len(t, e.MediaTypes, 2)
	assert.False(t, e.IsInherit())

	_, err := NewEntry("bad", "no-slash")
	require.Error(t, err)
}

func TestRegistry_EffectiveLists(t *testing.T) {
	reg := &Registry{
		Serializers: []Entry{
			mustEntry(t, "json", "application/json"),
			mustEntry(t, "xml", "text/xml"),
		},
	}

	t.Run("no override inherits resource list", func(t *testing.T) {
		got := reg.SerializersFor(nil)
		assert.Equal(t, []string{"json", "xml"}, entryIDs(got))
	})

	t.Run("override without marker replaces", func(t *testing.T) {
		got := reg.SerializersFor([]Entry{mustEntry(t, "html", "text/html")})
		assert.Equal(t, []string{"html"}, entryIDs(got))
	})

	t.Run("marker prepends operation entries", func(t *testing.T) {
		got := reg.SerializersFor([]Entry{
			mustEntry(t, "html", "text/html"),
			Inherit,
		})
		assert.Equal(t, []string{"html", "json", "xml"}, entryIDs(got))
	})

	t.Run("marker position is irrelevant", func(t *testing.T) {
		first := reg.SerializersFor([]Entry{Inherit, mustEntry(t, "html", "text/html")})
		last := reg.SerializersFor([]Entry{mustEntry(t, "html", "text/html"), Inherit})
		assert.Equal(t, entryIDs(last), entryIDs(first))
	})

	t.Run("marker alone yields resource list", func(t *testing.T) {
		got := reg.SerializersFor([]Entry{Inherit})
		assert.Equal(t, []string{"json", "xml"}, entryIDs(got))
	})

	t.Run("explicit empty override serves nothing", func(t *testing.T) {
		got := reg.SerializersFor([]Entry{})
		assert.Empty(t, got)
	})
}

func TestSupportedMediaTypes(t *testing.T) {
	entries := []Entry{
		mustEntry(t, "json", "application/json", "application/json5"),
		mustEntry(t, "xml", "text/xml"),
	}
	assert.Equal(t,
		[]string{"application/json", "application/json5", "text/xml"},
		SupportedMediaTypes(entries))
}
