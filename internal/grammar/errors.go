package grammar

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError reports a problem in a grammar definition.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

// CodeNoMatchingRule is the FailError code used when no rule of the current
// state matches.
const CodeNoMatchingRule = 0

// FailError is returned from a parse when a grammar rule fails.
type FailError struct {
	Grammar  string
	State    string
	Code     int
	Position int // -1 unless the rule reports a position
	Message  string
}

// Error implements the error interface.
func (e *FailError) Error() string {
	return e.Message
}

// IsFailError reports whether err is a grammar FailError, and returns it.
func IsFailError(err error) (*FailError, bool) {
	var fe *FailError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
