package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/parsers"
	"github.com/roach88/strparse/internal/store"
	"github.com/roach88/strparse/internal/trace"
	"github.com/roach88/strparse/internal/testutil"
)

// recordRuns records one run per input with the given ids.
func recordRuns(t *testing.T, db string, cfg parsers.Config, ids []string, inputs ...string) {
	t.Helper()
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	tr := trace.NewTracer(st, trace.WithIDGenerator(trace.NewFixedGenerator(ids...)))
	for _, in := range inputs {
		_, err := tr.Run(context.Background(), cfg, in)
		require.NoError(t, err)
	}
}

func TestTraceMissingDatabaseFlag(t *testing.T) {
	_, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--run", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestTraceNonExistentDatabase(t *testing.T) {
	_, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", "/nonexistent/path/runs.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceRunNotFound(t *testing.T) {
	db := testutil.TempDBPath(t)
	recordRuns(t, db, parsers.Config{Kind: parsers.KindQuoted}, nil)

	out, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "run not found: missing")
}

func TestTraceShowsTimeline(t *testing.T) {
	db := testutil.TempDBPath(t)
	recordRuns(t, db, parsers.Config{Kind: parsers.KindQuoted}, []string{"run-1"}, `"a"b`)

	out, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "run-1")
	require.NoError(t, err)

	assert.Contains(t, out, "Run: run-1")
	assert.Contains(t, out, "Parser: quoted")
	assert.Contains(t, out, "Fingerprint: ")
	assert.Contains(t, out, "Error: [invalid_trailing_characters] Invalid trailing characters after last quote character at position 3")
	assert.Contains(t, out, "Timeline (6 steps):")
	assert.Contains(t, out, "[5] left_quoted_string")
	assert.Contains(t, out, "[6] invalid_trailing_characters")
}

func TestTraceJSON(t *testing.T) {
	db := testutil.TempDBPath(t)
	recordRuns(t, db, parsers.Config{Kind: parsers.KindTruncate, Limit: 1}, []string{"run-1"}, "xy")

	out, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}), "--db", db, "--run", "run-1")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "run-1", resp.RunID)

	var result TraceResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "x", result.Run.Output)
	assert.Len(t, result.Fingerprint, 64)
	want := []TraceStep{
		{Seq: 1, State: 0, StateName: "unknown", Pointer: 0, Char: "x"},
		{Seq: 2, State: 1, StateName: "in_value", Pointer: 0, Char: "x"},
		{Seq: 3, State: 1, StateName: "in_value", Pointer: 1, Char: "y"},
	}
	assert.Equal(t, want, result.Timeline)
}

func TestTraceNumericStatesWhenGrammarMissing(t *testing.T) {
	db := testutil.TempDBPath(t)
	st, err := store.Open(db)
	require.NoError(t, err)
	cfg, _ := json.Marshal(parsers.Config{Kind: parsers.KindGrammar, GrammarPath: "/gone/g.cue"})
	run := store.Run{ID: "run-1", Parser: parsers.KindGrammar, Config: string(cfg), Input: "a", Output: "a", ErrorPosition: -1}
	steps := []engine.StepEvent{{Seq: 1, State: 7, Pointer: 0, Char: "a"}}
	require.NoError(t, st.WriteRun(context.Background(), run, steps))
	require.NoError(t, st.Close())

	out, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "run-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Timeline (1 steps):")
	assert.Contains(t, out, "[1] 7 ")
}

func TestTraceListRuns(t *testing.T) {
	db := testutil.TempDBPath(t)
	recordRuns(t, db, parsers.Config{Kind: parsers.KindQuoted}, []string{"q-1", "q-2"}, `"a"`, "bad")
	recordRuns(t, db, parsers.Config{Kind: parsers.KindPassThrough}, []string{"p-1"}, "hi")

	out, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "q-1")
	assert.Contains(t, out, "invalid_leading_characters")
	assert.Contains(t, out, "p-1")

	out, _, err = execute(t, NewTraceCommand(&RootOptions{Format: "json"}), "--db", db, "--parser", "quoted", "--limit", "1")
	require.NoError(t, err)
	var runs []store.Run
	require.NoError(t, json.Unmarshal(decodeResponse(t, out).Data, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "q-1", runs[0].ID)
}

func TestTraceListEmpty(t *testing.T) {
	db := testutil.TempDBPath(t)
	out, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found")
}
