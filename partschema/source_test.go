package partschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/resttools/resterrors"
)

func TestSource_IsEmpty(t *testing.T) {
	var nilSrc *Source
	assert.True(t, nilSrc.IsEmpty())
	assert.True(t, (&Source{}).IsEmpty())

	// the -1 count sentinel is still empty
	assert.True(t, (&Source{MaxLength: intPtr(-1)}).IsEmpty())

	assert.False(t, (&Source{Name: "id"}).IsEmpty())
	assert.False(t, (&Source{T: "string"}).IsEmpty())
	assert.False(t, (&Source{Required: boolPtr(false)}).IsEmpty())
	assert.False(t, (&Source{MaxLength: intPtr(0)}).IsEmpty())
	assert.False(t, (&Source{Items: &Source{Type: "integer"}}).IsEmpty())
	assert.False(t, (&Source{Codes: []int{200}}).IsEmpty())
}

func TestSourceFromYAML(t *testing.T) {
	doc := []byte(`
in: query
name: petId
type: integer
format: int64
required: true
minimum: 1
maximum: 9999
`)
	src, err := SourceFromYAML(doc)
	require.NoError(t, err)
	assert.Equal(t, "query", src.In)
	assert.Equal(t, "petId", src.Name)
	assert.Equal(t, "integer", src.Type)
	assert.Equal(t, "int64", src.Format)
	require.NotNil(t, src.Required)
	assert.True(t, *src.Required)
	require.NotNil(t, src.Minimum)
	assert.Equal(t, 1.0, *src.Minimum)
	require.NotNil(t, src.Maximum)
	assert.Equal(t, 9999.0, *src.Maximum)
}

func TestSourceFromYAML_StringEncodedValues(t *testing.T) {
	// string-encoded booleans and numbers decode identically to native ones
	native := []byte(`
name: tags
type: array
uniqueItems: true
maxItems: 10
minimum: 0.5
`)
	encoded := []byte(`
name: tags
type: array
uniqueItems: "true"
maxItems: "10"
minimum: "0.5"
`)
	nativeSrc, err := SourceFromYAML(native)
	require.NoError(t, err)
	encodedSrc, err := SourceFromYAML(encoded)
	require.NoError(t, err)
	assert.Equal(t, nativeSrc, encodedSrc)
}

func TestSourceFromYAML_Sentinels(t *testing.T) {
	src, err := SourceFromYAML([]byte(`
name: q
maxLength: -1
minLength: "-1"
`))
	require.NoError(t, err)
	require.NotNil(t, src.MaxLength)
	assert.Equal(t, -1, *src.MaxLength)
	require.NotNil(t, src.MinLength)
	assert.Equal(t, -1, *src.MinLength)

	// the sentinel never reaches a built schema
	s := buildSchema(t, LocationQuery, src)
	assert.Nil(t, s.MaxLength)
	assert.Nil(t, s.MinLength)
}

func TestSourceFromYAML_Nested(t *testing.T) {
	src, err := SourceFromYAML([]byte(`
name: body
in: body
type: object
properties:
  id:
    type: integer
    required: true
  tags:
    type: array
    items:
      type: string
      maxLength: 20
additionalProperties:
  type: string
`))
	require.NoError(t, err)
	require.Contains(t, src.Properties, "id")
	require.NotNil(t, src.Properties["id"].Required)
	assert.True(t, *src.Properties["id"].Required)
	require.Contains(t, src.Properties, "tags")
	require.NotNil(t, src.Properties["tags"].Items)
	require.NotNil(t, src.Properties["tags"].Items.MaxLength)
	assert.Equal(t, 20, *src.Properties["tags"].Items.MaxLength)
	require.NotNil(t, src.AdditionalProperties)
	assert.Equal(t, "string", src.AdditionalProperties.Type)
}

func TestSourceFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		option string
	}{
		{name: "bad boolean", doc: `required: "maybe"`, option: "required"},
		{name: "bad number", doc: `maximum: "lots"`, option: "maximum"},
		{name: "bad count", doc: `maxLength: "ten"`, option: "maxLength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SourceFromYAML([]byte(tt.doc))
			require.Error(t, err)
			var cfgErr *resterrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
			assert.ErrorIs(t, err, resterrors.ErrConfig)
		})
	}

	_, err := SourceFromYAML([]byte("{not yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, resterrors.ErrConfig)
}

func TestParseOptBool(t *testing.T) {
	got, err := ParseOptBool(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptBool("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptBool(true)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, *got)

	got, err = ParseOptBool("false")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, *got)

	_, err = ParseOptBool("yes-ish")
	require.Error(t, err)
	assert.ErrorIs(t, err, resterrors.ErrConfig)

	_, err = ParseOptBool(42)
	require.Error(t, err)
}
