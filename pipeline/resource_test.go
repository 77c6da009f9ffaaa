package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/resttools/negotiate"
	"github.com/erraggy/resttools/partschema"
	"github.com/erraggy/resttools/resterrors"
)

// xmlProducer is a stub second format engine for override tests.
type xmlProducer struct{}

func (xmlProducer) ID() string                  { return "xml" }
func (xmlProducer) MediaTypes() []string        { return []string{"text/xml"} }
func (xmlProducer) Marshal(any) ([]byte, error) { return []byte("<x/>"), nil }
func (xmlProducer) Unmarshal([]byte, any) error { return nil }

func entryIDsOf(entries []negotiate.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestBuildResource_ProducerLists(t *testing.T) {
	producers, err := NewProducerSet(JSONProducer{}, xmlProducer{})
	require.NoError(t, err)

	t.Run("undeclared lists default to every producer", func(t *testing.T) {
		res, err := buildResource(ResourceConfig{
			Name:       "pets",
			Operations: []OperationConfig{{Method: "GET", Path: "/pets"}},
		}, producers)
		require.NoError(t, err)

		op := res.Operations[0]
		assert.Equal(t, []string{"json", "xml"}, entryIDsOf(op.Serializers))
		assert.Equal(t, []string{"json", "xml"}, entryIDsOf(op.Parsers))
	})

	t.Run("operation override replaces the resource list", func(t *testing.T) {
		res, err := buildResource(ResourceConfig{
			Name:        "pets",
			Serializers: []string{"json", "xml"},
			Operations: []OperationConfig{{
				Method:      "GET",
				Path:        "/pets",
				Serializers: []string{"xml"},
			}},
		}, producers)
		require.NoError(t, err)
		assert.Equal(t, []string{"xml"}, entryIDsOf(res.Operations[0].Serializers))
	})

	t.Run("inherit marker prepends to the resource list", func(t *testing.T) {
		res, err := buildResource(ResourceConfig{
			Name:        "pets",
			Serializers: []string{"json"},
			Operations: []OperationConfig{{
				Method:      "GET",
				Path:        "/pets",
				Serializers: []string{"xml", "inherit"},
			}},
		}, producers)
		require.NoError(t, err)
		assert.Equal(t, []string{"xml", "json"}, entryIDsOf(res.Operations[0].Serializers))
	})

	t.Run("inherit marker is rejected at resource level", func(t *testing.T) {
		_, err := buildResource(ResourceConfig{
			Name:        "pets",
			Serializers: []string{"inherit"},
			Operations:  []OperationConfig{{Method: "GET", Path: "/pets"}},
		}, producers)
		require.ErrorIs(t, err, resterrors.ErrConfig)
		assert.Contains(t, err.Error(), "operation-level")
	})

	t.Run("unknown producer ID fails the build", func(t *testing.T) {
		_, err := buildResource(ResourceConfig{
			Name:        "pets",
			Serializers: []string{"msgpack"},
			Operations:  []OperationConfig{{Method: "GET", Path: "/pets"}},
		}, producers)
		require.ErrorIs(t, err, resterrors.ErrConfig)
		assert.Contains(t, err.Error(), "msgpack")
	})
}

func TestBuildResource_Errors(t *testing.T) {
	producers, err := NewProducerSet(JSONProducer{})
	require.NoError(t, err)

	t.Run("empty resource name", func(t *testing.T) {
		_, err := buildResource(ResourceConfig{}, producers)
		require.ErrorIs(t, err, resterrors.ErrConfig)
	})

	t.Run("empty operation method", func(t *testing.T) {
		_, err := buildResource(ResourceConfig{
			Name:       "pets",
			Operations: []OperationConfig{{Path: "/pets"}},
		}, producers)
		require.ErrorIs(t, err, resterrors.ErrConfig)
		assert.Contains(t, err.Error(), "method")
	})

	t.Run("two body parts", func(t *testing.T) {
		_, err := buildResource(ResourceConfig{
			Name: "pets",
			Operations: []OperationConfig{{
				Method: "POST",
				Path:   "/pets",
				Parts: []*partschema.Source{
					{In: "body", Name: "a", Type: "object"},
					{In: "body", Name: "b", Type: "object"},
				},
			}},
		}, producers)
		require.ErrorIs(t, err, resterrors.ErrConfig)
		assert.Contains(t, err.Error(), "more than one body part")
	})

	t.Run("part without location", func(t *testing.T) {
		_, err := buildResource(ResourceConfig{
			Name: "pets",
			Operations: []OperationConfig{{
				Method: "GET",
				Path:   "/pets",
				Parts:  []*partschema.Source{{Name: "limit", Type: "integer"}},
			}},
		}, producers)
		require.ErrorIs(t, err, resterrors.ErrConfig)
	})
}

func TestBuildOperation_Shape(t *testing.T) {
	producers, err := NewProducerSet(JSONProducer{})
	require.NoError(t, err)

	res, err := buildResource(ResourceConfig{
		Name: "pets",
		Operations: []OperationConfig{{
			Method: "post",
			Path:   "/pets/{petId}",
			Parts: []*partschema.Source{
				{In: "path", Name: "petId", Type: "integer"},
				{In: "body", Name: "pet", Type: "object"},
			},
		}},
	}, producers)
	require.NoError(t, err)

	op := res.Operations[0]
	assert.Equal(t, "POST", op.Method, "method is upper-cased")
	assert.Equal(t, "POST /pets/{petId}", op.Name())
	require.Len(t, op.Parts, 1)
	assert.Equal(t, "petId", op.Parts[0].Name)
	require.NotNil(t, op.BodyPart)
	assert.Equal(t, "pet", op.BodyPart.Name)
}
