package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/strparse/internal/engine"
)

const runColumns = `id, parser, config, input, output, error_code, error_message, error_position, step_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(
		&r.ID,
		&r.Parser,
		&r.Config,
		&r.Input,
		&r.Output,
		&r.ErrorCode,
		&r.ErrorMessage,
		&r.ErrorPosition,
		&r.StepCount,
	)
	return r, err
}

// ReadRun returns the run with the given id, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return r, nil
}

// ReadSteps returns the steps of a run ordered by seq.
// Returns an empty slice (not nil) when the run has no steps.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]engine.StepEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, state, pointer, char
		FROM steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []engine.StepEvent{}
	for rows.Next() {
		var (
			st    engine.StepEvent
			state int
		)
		if err := rows.Scan(&st.Seq, &state, &st.Pointer, &st.Char); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.State = engine.State(state)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// ListRuns returns runs in insertion order. An empty parser matches every
// run; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, parser string, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if parser != "" {
		query += ` WHERE parser = ?`
		args = append(args, parser)
	}
	query += ` ORDER BY rowid ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
