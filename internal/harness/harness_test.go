package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strparse/internal/parsers"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRun_ScenarioFiles(t *testing.T) {
	scenarios, _, err := LoadScenarios("testdata/scenarios", "")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors:\n%s", strings.Join(result.Errors, "\n"))
			assert.Len(t, result.Cases, len(s.Cases))
		})
	}
}

func TestRun_ReportsMismatches(t *testing.T) {
	s := &Scenario{
		Name:        "mismatch",
		Description: "every expectation is wrong",
		Config:      parsers.Config{Kind: parsers.KindQuoted},
		Cases: []Case{
			{Name: "wrong_output", Input: `"a"`, Expect: Expect{Output: strPtr("b")}},
			{Name: "unexpected_error", Input: `a`, Expect: Expect{Output: strPtr("a")}},
			{Name: "missing_error", Input: `"a"`, Expect: Expect{Error: "invalid_escape_character"}},
			{Name: "wrong_code", Input: `a`, Expect: Expect{Error: "invalid_escape_character"}},
			{Name: "wrong_position", Input: `"a" b`, Expect: Expect{Error: "invalid_trailing_characters", Position: intPtr(1)}},
		},
		Assertions: []Assertion{
			{Type: AssertStepCount, Case: "wrong_output", Count: 99},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 6)

	assert.Contains(t, result.Errors[0], `case wrong_output: expected output "b", got "a"`)
	assert.Contains(t, result.Errors[1], "expected output \"a\", got error invalid_leading_characters")
	assert.Contains(t, result.Errors[2], `expected error invalid_escape_character, got output "a"`)
	assert.Contains(t, result.Errors[3], "expected error invalid_escape_character, got invalid_leading_characters")
	assert.Contains(t, result.Errors[4], "expected error position 1, got 4")
	assert.Contains(t, result.Errors[5], "Assertion failed: step_count")

	for _, c := range result.Cases {
		assert.False(t, c.Pass, c.Name)
	}
}

func TestRun_CaseTraceUsesStateNames(t *testing.T) {
	s := &Scenario{
		Name:        "names",
		Description: "trace names",
		Config:      parsers.Config{Kind: parsers.KindQuoted},
		Cases:       []Case{{Name: "a", Input: `"a"`, Expect: Expect{Output: strPtr("a")}}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass)

	cr, ok := result.Case("a")
	require.True(t, ok)
	states := make([]string, len(cr.Trace))
	for i, ev := range cr.Trace {
		states[i] = ev.State
	}
	assert.Equal(t, []string{"unknown", "entering_quoted_string", "in_quoted_string", "in_quoted_string"}, states)

	_, ok = result.Case("missing")
	assert.False(t, ok)
}

func TestRun_BadGrammar(t *testing.T) {
	s := &Scenario{
		Name:        "bad",
		Description: "grammar file missing",
		Config:      parsers.Config{Kind: parsers.KindGrammar, GrammarPath: "testdata/missing.cue"},
		Cases:       []Case{{Name: "a", Input: "x", Expect: Expect{Output: strPtr("x")}}},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build parser")
}
