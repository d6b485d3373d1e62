package trace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/parsers"
	"github.com/roach88/strparse/internal/store"
)

// ReplayReport compares a stored run with a fresh parse of its input.
type ReplayReport struct {
	RunID      string    `json:"run_id"`
	Original   store.Run `json:"original"`
	Replayed   store.Run `json:"replayed"`
	Mismatches []string  `json:"mismatches"`

	// Fingerprints of the stored and replayed runs; equal when deterministic.
	OriginalFingerprint string `json:"original_fingerprint"`
	ReplayedFingerprint string `json:"replayed_fingerprint"`
}

// Deterministic reports whether the replay matched the stored run exactly.
func (r *ReplayReport) Deterministic() bool {
	return len(r.Mismatches) == 0
}

// Replay loads the run with the given id, rebuilds its parser from the
// stored configuration and parses the stored input again. Store and
// configuration problems are returned as error; differences between the
// two parses are listed in the report.
func Replay(ctx context.Context, st *store.Store, runID string) (*ReplayReport, error) {
	original, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	originalSteps, err := st.ReadSteps(ctx, runID)
	if err != nil {
		return nil, err
	}

	var cfg parsers.Config
	if err := json.Unmarshal([]byte(original.Config), &cfg); err != nil {
		return nil, fmt.Errorf("replay %s: decode parser config: %w", runID, err)
	}

	res, err := Capture(cfg, original.Input)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", runID, err)
	}
	res.Run.ID = original.ID

	report := &ReplayReport{
		RunID:      runID,
		Original:   original,
		Replayed:   res.Run,
		Mismatches: compareRuns(original, originalSteps, res.Run, res.Steps),

		OriginalFingerprint: Fingerprint(original, originalSteps),
		ReplayedFingerprint: Fingerprint(res.Run, res.Steps),
	}
	return report, nil
}

func compareRuns(want store.Run, wantSteps []engine.StepEvent, got store.Run, gotSteps []engine.StepEvent) []string {
	var diffs []string
	if want.Output != got.Output {
		diffs = append(diffs, fmt.Sprintf("output: stored %q, replayed %q", want.Output, got.Output))
	}
	if want.ErrorCode != got.ErrorCode {
		diffs = append(diffs, fmt.Sprintf("error code: stored %q, replayed %q", want.ErrorCode, got.ErrorCode))
	}
	if want.ErrorMessage != got.ErrorMessage {
		diffs = append(diffs, fmt.Sprintf("error message: stored %q, replayed %q", want.ErrorMessage, got.ErrorMessage))
	}
	if want.ErrorPosition != got.ErrorPosition {
		diffs = append(diffs, fmt.Sprintf("error position: stored %d, replayed %d", want.ErrorPosition, got.ErrorPosition))
	}
	if len(wantSteps) != len(gotSteps) {
		diffs = append(diffs, fmt.Sprintf("steps: stored %d, replayed %d", len(wantSteps), len(gotSteps)))
		return diffs
	}
	for i := range wantSteps {
		if wantSteps[i] != gotSteps[i] {
			diffs = append(diffs, fmt.Sprintf("step %d: stored %+v, replayed %+v", i+1, wantSteps[i], gotSteps[i]))
			// Later steps usually diverge too; the first is enough.
			break
		}
	}
	return diffs
}
