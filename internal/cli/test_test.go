package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strparse/internal/harness"
	"github.com/roach88/strparse/internal/testutil"
)

const scenariosDir = "../harness/testdata/scenarios"

const passingScenario = `name: tiny
description: "one passing case"
parser: truncate
limit: 1
cases:
  - name: cut
    input: ab
    expect:
      output: a
`

const failingScenario = `name: broken
description: "expectation is wrong"
parser: quoted
cases:
  - name: wrong
    input: '"a"'
    expect:
      output: b
`

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, _, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, _, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), t.TempDir())
	require.NoError(t, err)

	var result TestResult
	require.NoError(t, json.Unmarshal(decodeResponse(t, out).Data, &result))
	assert.Equal(t, 0, result.Total)
}

func TestTestCommandRepositoryScenarios(t *testing.T) {
	out, _, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), scenariosDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ quoted_basics")
	assert.Contains(t, out, "✓ grammar_quoted")
	assert.Contains(t, out, "Test Summary: 4 passed, 0 failed, 4 total")
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), scenariosDir, "--filter", "trunc*")
	require.NoError(t, err)

	var result TestResult
	require.NoError(t, json.Unmarshal(decodeResponse(t, out).Data, &result))
	require.Len(t, result.Scenarios, 1)
	assert.Equal(t, "truncate", result.Scenarios[0].Name)
	assert.Equal(t, 4, result.Scenarios[0].Cases)
}

func TestTestCommandFailure(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"broken.yaml": failingScenario, "tiny.yaml": passingScenario})

	out, _, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, `case wrong: expected output "b", got "a"`)
	assert.Contains(t, out, "✓ tiny")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"bad.yaml": "name: x\nunknown_field: 1\n"})

	_, _, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenarios")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"tiny.yaml": passingScenario})
	goldenPath := filepath.Join(dir, "golden", "tiny.golden")

	out, _, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ tiny (golden updated)")

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	scenario, err := harness.LoadScenario(filepath.Join(dir, "tiny.yaml"))
	require.NoError(t, err)
	result, err := harness.Run(scenario)
	require.NoError(t, err)
	want, err := harness.MarshalSnapshot("tiny", result)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(golden))

	// Matches the fresh golden file.
	out, _, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ tiny")

	// A stale golden file fails the scenario.
	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, _, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot does not match golden file")
}
