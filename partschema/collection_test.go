package partschema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cf   CollectionFormat
		raw  string
		want []string
	}{
		{name: "csv", cf: CollectionCSV, raw: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "ssv", cf: CollectionSSV, raw: "a b c", want: []string{"a", "b", "c"}},
		{name: "tsv", cf: CollectionTSV, raw: "a\tb\tc", want: []string{"a", "b", "c"}},
		{name: "pipes", cf: CollectionPipes, raw: "a|b|c", want: []string{"a", "b", "c"}},
		{name: "none defaults to csv", cf: CollectionNone, raw: "a,b", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elems, err := Split(tt.raw, tt.cf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, elems)

			// splitting then re-joining reproduces the original string
			joined, err := Join(elems, tt.cf)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, joined)
		})
	}
}

func TestSplit_UONC(t *testing.T) {
	elems, err := Split("@(a,b,c)", CollectionUONC)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, elems)

	_, err = Split("not-an-array", CollectionUONC)
	require.Error(t, err)
}

func TestSplit_MultiHasNoSingleStringForm(t *testing.T) {
	_, err := Split("a,b", CollectionMulti)
	require.Error(t, err)

	_, err = Join([]string{"a", "b"}, CollectionMulti)
	require.Error(t, err)
}

func TestCoerce_Scalars(t *testing.T) {
	tests := []struct {
		name    string
		src     *Source
		raw     string
		want    any
		wantErr bool
	}{
		{name: "integer", src: &Source{Type: "integer"}, raw: "42", want: int64(42)},
		{name: "integer invalid", src: &Source{Type: "integer"}, raw: "4.2", wantErr: true},
		{name: "int32 in range", src: &Source{Type: "integer", Format: "int32"}, raw: "2147483647", want: int64(2147483647)},
		{name: "int32 overflow", src: &Source{Type: "integer", Format: "int32"}, raw: "2147483648", wantErr: true},
		{name: "number", src: &Source{Type: "number"}, raw: "3.5", want: 3.5},
		{name: "number invalid", src: &Source{Type: "number"}, raw: "three", wantErr: true},
		{name: "boolean true", src: &Source{Type: "boolean"}, raw: "true", want: true},
		{name: "boolean invalid", src: &Source{Type: "boolean"}, raw: "maybe", wantErr: true},
		{name: "plain string", src: &Source{Type: "string"}, raw: "hello", want: "hello"},
		{name: "untyped passes through", src: &Source{Name: "x"}, raw: "raw", want: "raw"},
		{name: "byte base64", src: &Source{Type: "string", Format: "byte"}, raw: "Zm9v", want: []byte("foo")},
		{name: "byte invalid", src: &Source{Type: "string", Format: "byte"}, raw: "!!", wantErr: true},
		{name: "binary hex", src: &Source{Type: "string", Format: "binary"}, raw: "666f6f", want: []byte("foo")},
		{name: "binary spaced hex", src: &Source{Type: "string", Format: "binary-spaced"}, raw: "66 6f 6f", want: []byte("foo")},
		{name: "uon scalar", src: &Source{Type: "string", Format: "uon"}, raw: "'a b'", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildSchema(t, LocationQuery, tt.src)
			got, err := Coerce(tt.raw, s)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_Dates(t *testing.T) {
	s := buildSchema(t, LocationQuery, &Source{Type: "string", Format: "date"})
	got, err := Coerce("2024-06-15", s)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = Coerce("15/06/2024", s)
	require.Error(t, err)

	s = buildSchema(t, LocationQuery, &Source{Type: "string", Format: "date-time"})
	got, err = Coerce("2024-06-15T10:30:00Z", s)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC), got)
}

func TestCoerce_Arrays(t *testing.T) {
	t.Run("csv of integers", func(t *testing.T) {
		s := buildSchema(t, LocationQuery, &Source{
			Type:  "array",
			Items: &Source{Type: "integer"},
		})
		got, err := Coerce("1,2,3", s)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, got)
	})

	t.Run("pipes of strings", func(t *testing.T) {
		s := buildSchema(t, LocationQuery, &Source{Type: "array", CF: "pipes"})
		got, err := Coerce("a|b", s)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, got)
	})

	t.Run("uonc literal", func(t *testing.T) {
		s := buildSchema(t, LocationQuery, &Source{
			Type:             "array",
			CollectionFormat: "uonc",
			Items:            &Source{Type: "integer"},
		})
		got, err := Coerce("@(1,2,3)", s)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, got)
	})

	t.Run("bad element reports position", func(t *testing.T) {
		s := buildSchema(t, LocationQuery, &Source{
			Type:  "array",
			Items: &Source{Type: "integer"},
		})
		_, err := Coerce("1,x,3", s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element 1")
	})
}

func TestCoerceValues_Multi(t *testing.T) {
	s := buildSchema(t, LocationQuery, &Source{
		Type:             "array",
		CollectionFormat: "multi",
		Items:            &Source{Type: "integer"},
	})
	got, err := CoerceValues([]string{"3", "4", "5"}, s)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3), int64(4), int64(5)}, got)
}
