package engine

import (
	"errors"
	"fmt"
)

// UnknownStateError is returned by Parse when the current state has no
// registered handler.
type UnknownStateError struct {
	State State
}

// Error implements the error interface.
func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("Unknown state: %d", e.State)
}

// IsUnknownState returns true if err is an UnknownStateError.
// Uses errors.As to handle wrapped errors.
func IsUnknownState(err error) bool {
	var ue *UnknownStateError
	return errors.As(err, &ue)
}

// UnknownState returns the offending state of an UnknownStateError.
func UnknownState(err error) (State, bool) {
	var ue *UnknownStateError
	if errors.As(err, &ue) {
		return ue.State, true
	}
	return 0, false
}
