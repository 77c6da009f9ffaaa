package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuneLen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "ascii", input: "hello", want: 5},
		{name: "empty", input: "", want: 0},
		{name: "multibyte", input: "héllo", want: 5},
		{name: "cjk", input: "日本語", want: 3},
		{name: "emoji", input: "a👍b", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuneLen(tt.input))
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\t\n"))
	assert.False(t, IsBlank("x"))
	assert.False(t, IsBlank(" x "))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", FirstNonEmpty("a", "b"))
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestQuoteList(t *testing.T) {
	assert.Equal(t, "['text/a','text/b']", QuoteList([]string{"text/a", "text/b"}))
	assert.Equal(t, "['x']", QuoteList([]string{"x"}))
	assert.Equal(t, "[]", QuoteList(nil))
}
