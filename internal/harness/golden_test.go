package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strparse/internal/parsers"
)

func TestRunWithGolden_Truncate(t *testing.T) {
	s := &Scenario{
		Name:        "golden_truncate",
		Description: "truncate trace snapshot",
		Config:      parsers.Config{Kind: parsers.KindTruncate, Limit: 2},
		Cases: []Case{
			{Name: "cut", Input: "abc", Expect: Expect{Output: strPtr("ab")}},
			{Name: "empty", Input: "", Expect: Expect{Output: strPtr("")}},
		},
	}

	// Regenerate with: go test ./internal/harness -run TestRunWithGolden -update
	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRunWithGolden_QuotedErrors(t *testing.T) {
	s := &Scenario{
		Name:        "golden_quoted_errors",
		Description: "quoted error snapshot",
		Config:      parsers.Config{Kind: parsers.KindQuoted},
		Cases: []Case{
			{Name: "leading", Input: "x", Expect: Expect{Error: "invalid_leading_characters"}},
			{Name: "trailing", Input: `"a"b`, Expect: Expect{Error: "invalid_trailing_characters", Position: intPtr(3)}},
		},
	}

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestMarshalSnapshot_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/quoted_basics.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := MarshalSnapshot(s.Name, first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, byte('\n'), a[len(a)-1])
}
