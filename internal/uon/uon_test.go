package uon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "simple", input: "@(a,b,c)", want: []string{"a", "b", "c"}},
		{name: "empty array", input: "@()", want: []string{}},
		{name: "single element", input: "@(x)", want: []string{"x"}},
		{name: "quoted element with comma", input: "@('a,b',c)", want: []string{"a,b", "c"}},
		{name: "quoted element with escape", input: "@('it~'s',x)", want: []string{"it's", "x"}},
		{name: "nested literal kept raw", input: "@((a=1),(b=2))", want: []string{"(a=1)", "(b=2)"}},
		{name: "numbers", input: "@(1,2,3)", want: []string{"1", "2", "3"}},
		{name: "missing prefix", input: "(a,b)", wantErr: true},
		{name: "missing close", input: "@(a,b", wantErr: true},
		{name: "unterminated quote", input: "@('a,b)", wantErr: true},
		{name: "unbalanced parens", input: "@((a)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArray(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    any
		wantErr bool
	}{
		{name: "plain token", input: "abc", want: "abc"},
		{name: "quoted string", input: "'a b'", want: "a b"},
		{name: "quoted with escape", input: "'it~'s'", want: "it's"},
		{name: "true", input: "true", want: true},
		{name: "false", input: "false", want: false},
		{name: "null", input: "null", want: nil},
		{name: "integer", input: "42", want: int64(42)},
		{name: "negative integer", input: "-7", want: int64(-7)},
		{name: "float", input: "3.14", want: 3.14},
		{name: "unterminated quote", input: "'abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
