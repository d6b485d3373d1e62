package passthrough

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strparse/internal/charseq"
	"github.com/roach88/strparse/internal/engine"
)

func TestPassThroughParser(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non-broken ascii", "foo"},
		{"ascii with whitespace", "comes out the same as it goes in"},
		{"utf8", "输入项"},
		{"empty", ""},
		{"invalid utf8 survives", "a\xffb"},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestPassThroughParserGraphemes(t *testing.T) {
	input := "e\u0301 \U0001F1E9\U0001F1EA"

	got, err := New(engine.WithSegmenter(charseq.Graphemes)).Parse(input)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestPassThroughParserNormalizes(t *testing.T) {
	got, err := New(engine.WithNormalization(charseq.FormNFC)).Parse("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\u00e9", got)
}
