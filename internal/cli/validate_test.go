package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strparse/internal/testutil"
)

func writeGrammar(t *testing.T, src string) string {
	return testutil.WriteFile(t, t.TempDir(), "g.cue", src)
}

func TestValidateValidGrammar(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), testGrammarFile)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ 2 grammar(s) valid")
	assert.Contains(t, out, "quoted: 7 states")
	assert.Contains(t, out, "squeeze:")
}

func TestValidateValidGrammarJSON(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), testGrammarFile)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)

	var result ValidationResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.True(t, result.Valid)
	require.Len(t, result.Grammars, 2)
	assert.Equal(t, "quoted", result.Grammars[0].Name)
	assert.Equal(t, "unknown", result.Grammars[0].States[0])
}

func TestValidateNonExistentFile(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/grammar.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestValidateMissingArg(t *testing.T) {
	_, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestValidateCompileError(t *testing.T) {
	path := writeGrammar(t, `grammar: g: {
	state: start: {
		id: 0
		rule: [{on: "ab", goto: "start"}]
	}
}
`)
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ grammar validation failed")
	assert.Contains(t, out, "[E101]")
	assert.Contains(t, out, "single character")
}

func TestValidateSyntaxErrorJSON(t *testing.T) {
	path := writeGrammar(t, "grammar: g: {\n\tstate: {\n")

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeGrammar, resp.Error.Code)

	var result ValidationResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Greater(t, result.Errors[0].Line, 0)
}
