package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/parsers"
	"github.com/roach88/strparse/internal/store"
	"github.com/roach88/strparse/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - without it, runs are listed
	Parser   string // list filter
	Limit    int    // list limit
}

// TraceStep is one dispatch in a run's timeline.
type TraceStep struct {
	Seq       int64  `json:"seq"`
	State     int    `json:"state"`
	StateName string `json:"state_name"`
	Pointer   int    `json:"pointer"`
	Char      string `json:"char"`
}

// TraceResult holds a run and its timeline.
type TraceResult struct {
	Run         store.Run   `json:"run"`
	Fingerprint string      `json:"fingerprint"`
	Timeline    []TraceStep `json:"timeline"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded parse runs",
		Long: `Show a recorded run step by step, or list the recorded runs.

Each step is one handler call: the state that ran, the cursor position and
the character under the cursor.

Examples:
  strparse trace --db ./runs.db
  strparse trace --db ./runs.db --parser quoted --limit 10
  strparse trace --db ./runs.db --run 0190b6c2-...
  strparse trace --db ./runs.db --run 0190b6c2-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show")
	cmd.Flags().StringVar(&opts.Parser, "parser", "", "list only runs of this parser")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "list at most this many runs (0 for all)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, st, opts, formatter)
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	steps, err := st.ReadSteps(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read steps", err)
	}

	stateName := stateNamer(run, formatter)
	result := TraceResult{
		Run:         run,
		Fingerprint: trace.Fingerprint(run, steps),
		Timeline:    make([]TraceStep, len(steps)),
	}
	for i, s := range steps {
		result.Timeline[i] = TraceStep{
			Seq:       s.Seq,
			State:     int(s.State),
			StateName: stateName(s.State),
			Pointer:   s.Pointer,
			Char:      s.Char,
		}
	}

	if opts.Format == "json" {
		return formatter.SuccessWithRun(result, run.ID)
	}
	outputTraceText(formatter, result)
	return nil
}

// stateNamer rebuilds the run's parser to name its states. Grammar files
// may have moved since the run was recorded; numbers are used then.
func stateNamer(run store.Run, formatter *OutputFormatter) func(engine.State) string {
	numeric := func(s engine.State) string { return strconv.Itoa(int(s)) }

	var cfg parsers.Config
	if err := json.Unmarshal([]byte(run.Config), &cfg); err != nil {
		formatter.VerboseLog("Cannot decode parser config: %v", err)
		return numeric
	}
	built, err := parsers.New(cfg)
	if err != nil {
		formatter.VerboseLog("Cannot rebuild parser for state names: %v", err)
		return numeric
	}
	return built.StateName
}

func outputTraceText(formatter *OutputFormatter, result TraceResult) {
	w := formatter.Writer
	run := result.Run

	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "Parser: %s\n", run.Parser)
	fmt.Fprintf(w, "Input: %q\n", run.Input)
	fmt.Fprintf(w, "Fingerprint: %s\n", result.Fingerprint)
	if run.Failed() {
		fmt.Fprintf(w, "Error: [%s] %s\n", run.ErrorCode, run.ErrorMessage)
	} else {
		fmt.Fprintf(w, "Output: %q\n", run.Output)
	}

	fmt.Fprintf(w, "\nTimeline (%d steps):\n", len(result.Timeline))
	for _, s := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %-28s @%-3d %q\n", s.Seq, s.StateName, s.Pointer, s.Char)
	}
}

func listRuns(ctx context.Context, st *store.Store, opts *TraceOptions, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx, opts.Parser, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}
	for _, r := range runs {
		status := "ok"
		if r.Failed() {
			status = r.ErrorCode
		}
		fmt.Fprintf(w, "%s  %-11s %4d steps  %-28s %q\n", r.ID, r.Parser, r.StepCount, status, r.Input)
	}
	return nil
}
