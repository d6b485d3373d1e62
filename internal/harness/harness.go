package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/parsers"
	"github.com/roach88/strparse/internal/store"
	"github.com/roach88/strparse/internal/trace"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store. Every case is parsed
// with a fresh parser, recorded under the run id "<scenario>/<case>", and
// then replayed from the store; a replay that differs from the recorded run
// fails the scenario.
//
// The returned error is reserved for infrastructure failures (store,
// parser construction). Expectation mismatches are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, nil)
}

// RunContext is Run with a context and a logger (nil discards).
func RunContext(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	// Built once to resolve state names; each case gets its own parser.
	names, err := parsers.New(scenario.Config)
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}

	ids := make([]string, len(scenario.Cases))
	for i, c := range scenario.Cases {
		ids[i] = scenario.Name + "/" + c.Name
	}
	tracer := trace.NewTracer(st,
		trace.WithIDGenerator(trace.NewFixedGenerator(ids...)),
		trace.WithLogger(logger),
	)

	result := NewResult()
	for _, c := range scenario.Cases {
		res, err := tracer.Run(ctx, scenario.Config, c.Input)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}

		cr := CaseResult{
			Name:   c.Name,
			Input:  c.Input,
			Output: res.Run.Output,
			Error:  parsers.Describe(res.Err),
			Trace:  toTrace(res.Steps, names.StateName),
			Pass:   true,
		}
		for _, msg := range checkExpect(c, cr) {
			cr.Pass = false
			result.AddError(fmt.Sprintf("case %s: %s", c.Name, msg))
		}

		report, err := trace.Replay(ctx, st, res.Run.ID)
		if err != nil {
			return nil, fmt.Errorf("case %s: replay: %w", c.Name, err)
		}
		for _, m := range report.Mismatches {
			result.AddError(fmt.Sprintf("case %s: replay mismatch: %s", c.Name, m))
		}

		logger.Debug("case complete", "scenario", scenario.Name, "case", c.Name, "pass", cr.Pass)
		result.Cases = append(result.Cases, cr)
	}

	for _, a := range scenario.Assertions {
		cr, _ := result.Case(a.Case)
		if err := evaluateAssertion(cr.Trace, a); err != nil {
			result.AddError(fmt.Sprintf("case %s: %v", a.Case, err))
		}
	}

	return result, nil
}

func toTrace(steps []engine.StepEvent, stateName func(engine.State) string) []TraceEvent {
	events := make([]TraceEvent, len(steps))
	for i, s := range steps {
		events[i] = TraceEvent{
			Seq:     s.Seq,
			State:   stateName(s.State),
			Pointer: s.Pointer,
			Char:    s.Char,
		}
	}
	return events
}

// checkExpect compares a case result with its expectation and returns one
// message per mismatch.
func checkExpect(c Case, cr CaseResult) []string {
	var msgs []string
	exp := c.Expect

	if exp.Output != nil {
		if cr.Error != nil {
			msgs = append(msgs, fmt.Sprintf("expected output %q, got error %s: %s", *exp.Output, cr.Error.Code, cr.Error.Message))
		} else if cr.Output != *exp.Output {
			msgs = append(msgs, fmt.Sprintf("expected output %q, got %q", *exp.Output, cr.Output))
		}
		return msgs
	}

	if cr.Error == nil {
		return append(msgs, fmt.Sprintf("expected error %s, got output %q", exp.Error, cr.Output))
	}
	if cr.Error.Code != exp.Error {
		msgs = append(msgs, fmt.Sprintf("expected error %s, got %s", exp.Error, cr.Error.Code))
	}
	if exp.Position != nil && cr.Error.Position != *exp.Position {
		msgs = append(msgs, fmt.Sprintf("expected error position %d, got %d", *exp.Position, cr.Error.Position))
	}
	return msgs
}
