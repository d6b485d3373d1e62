package engine

import (
	"errors"
	"fmt"
)

// QuotaEnforcer counts handler calls in one parse and enforces an optional
// limit.
//
// The engine itself makes no progress guarantee; the quota is an opt-in
// guard for tables that come from outside the program (grammar files).
type QuotaEnforcer struct {
	maxSteps int // 0 means unlimited
	current  int
}

// NewQuotaEnforcer creates a quota enforcer. A maxSteps of 0 or less
// disables the limit.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	if maxSteps < 0 {
		maxSteps = 0
	}
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check counts one more step and fails once the limit is passed.
func (q *QuotaEnforcer) Check(state State, pointer int) error {
	q.current++
	if q.maxSteps > 0 && q.current > q.maxSteps {
		return &StepsExceededError{
			State:   state,
			Pointer: pointer,
			Steps:   q.current,
			Limit:   q.maxSteps,
		}
	}
	return nil
}

// Current returns the number of steps counted so far.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the configured limit (0 when unlimited).
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError is returned when a parse makes more handler calls than
// WithMaxSteps allows.
type StepsExceededError struct {
	State   State // state that was about to run
	Pointer int   // cursor position at that moment
	Steps   int
	Limit   int
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("parse exceeded max steps: %d steps > %d limit (state=%d, pointer=%d)",
		e.Steps, e.Limit, e.State, e.Pointer)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
