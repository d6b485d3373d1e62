package truncate

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminationParser(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"non-broken ascii", "foo", 2, "fo"},
		{"ascii with whitespace", "comes out the same as it goes in", 7, "comes o"},
		{"utf8, cantonese, limit=9", "我隻氣墊船裝滿晒鱔", 9, "我隻氣墊船裝滿晒鱔"},
		{"utf8, cantonese, limit=3", "我隻氣墊船裝滿晒鱔", 3, "我隻氣"},
		{"zero limit", "anything", 0, ""},
		{"limit beyond input", "ab", 100, "ab"},
		{"empty input", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.limit).Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLimit(t *testing.T) {
	p := New(-1)
	assert.Equal(t, DefaultLimit, p.Limit())

	got, err := p.Parse("0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", got)
}

func TestCounterResetsPerParse(t *testing.T) {
	p := New(3)

	first, err := p.Parse("abcdef")
	require.NoError(t, err)
	second, err := p.Parse("uvwxyz")
	require.NoError(t, err)

	assert.Equal(t, "abc", first)
	assert.Equal(t, "uvw", second)
}

func TestTruncationNeverSplitsCharacters(t *testing.T) {
	input := "a€𝄞我🙂"
	total := utf8.RuneCountInString(input)

	for n := 0; n <= total+1; n++ {
		got, err := New(n).Parse(input)
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, min(n, total), utf8.RuneCountInString(got))
	}
}
