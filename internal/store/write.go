package store

import (
	"context"
	"fmt"

	"github.com/roach88/strparse/internal/engine"
)

// Run is one recorded parse.
type Run struct {
	ID     string `json:"id"`
	Parser string `json:"parser"`
	// Config is the parser configuration as JSON.
	Config string `json:"config"`
	Input  string `json:"input"`
	Output string `json:"output"`

	// Error fields are empty (and ErrorPosition -1) for successful parses.
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	ErrorPosition int    `json:"error_position"`

	StepCount int `json:"step_count"`
}

// Failed reports whether the run ended with an error.
func (r Run) Failed() bool {
	return r.ErrorMessage != ""
}

// WriteRun stores a run and its steps in one transaction.
// Writing a run id that already exists is an error.
func (s *Store) WriteRun(ctx context.Context, run Run, steps []engine.StepEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, parser, config, input, output, error_code, error_message, error_position, step_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Parser,
		run.Config,
		run.Input,
		run.Output,
		run.ErrorCode,
		run.ErrorMessage,
		run.ErrorPosition,
		len(steps),
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps (run_id, seq, state, pointer, char)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write run %s: prepare steps: %w", run.ID, err)
	}
	defer stmt.Close()

	for _, st := range steps {
		if _, err := stmt.ExecContext(ctx, run.ID, st.Seq, int(st.State), st.Pointer, st.Char); err != nil {
			return fmt.Errorf("write run %s: step %d: %w", run.ID, st.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run %s: commit: %w", run.ID, err)
	}
	return nil
}

// DeleteRun removes a run and its steps.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrNotFound)
	}
	return nil
}
