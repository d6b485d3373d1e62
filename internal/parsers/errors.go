package parsers

import (
	"errors"
	"fmt"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/grammar"
	"github.com/roach88/strparse/internal/quoted"
)

// Error codes for errors that are not syntax errors of a specific parser.
const (
	CodeUnknownState  = "unknown_state"
	CodeStepsExceeded = "steps_exceeded"
	CodeOther         = "error"
)

// ErrorInfo is the stable description of a parse error.
type ErrorInfo struct {
	Code     string `json:"code" yaml:"code"`
	Position int    `json:"position" yaml:"position"`
	Message  string `json:"message" yaml:"message"`
}

// Describe classifies a parse error. Position is -1 when the error carries
// no location. Describe(nil) returns nil.
func Describe(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	info := &ErrorInfo{Code: CodeOther, Position: -1, Message: err.Error()}

	if se, ok := asSyntaxError(err); ok {
		info.Code = se.Code.String()
		info.Position = se.Position
		return info
	}
	if fe, ok := grammar.IsFailError(err); ok {
		info.Code = fmt.Sprintf("grammar_%d", fe.Code)
		info.Position = fe.Position
		return info
	}
	if _, ok := engine.UnknownState(err); ok {
		info.Code = CodeUnknownState
		return info
	}
	if engine.IsStepsExceededError(err) {
		info.Code = CodeStepsExceeded
		return info
	}
	return info
}

func asSyntaxError(err error) (*quoted.SyntaxError, bool) {
	var se *quoted.SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
