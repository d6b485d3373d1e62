package quoted

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of syntax error.
type ErrorCode int

const (
	// CodeInvalidLeadingCharacters: input does not start with '"'.
	CodeInvalidLeadingCharacters ErrorCode = 1

	// CodeInvalidTrailingCharacters: characters follow the closing quote.
	CodeInvalidTrailingCharacters ErrorCode = 2

	// CodeInvalidEscapeCharacter: '\' is not followed by '"'.
	CodeInvalidEscapeCharacter ErrorCode = 3
)

// String returns the error kind in snake case.
func (c ErrorCode) String() string {
	switch c {
	case CodeInvalidLeadingCharacters:
		return "invalid_leading_characters"
	case CodeInvalidTrailingCharacters:
		return "invalid_trailing_characters"
	case CodeInvalidEscapeCharacter:
		return "invalid_escape_character"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// SyntaxError is returned by Parser.Parse for malformed input.
//
// Position is the cursor position, in characters, at the moment the parser
// noticed the problem. For trailing characters it is one past the first
// trailing character; for escapes it is the backslash. Position is -1 when
// the error has no location.
type SyntaxError struct {
	Code     ErrorCode
	Position int
	Message  string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return e.Message
}

// NewInvalidLeadingCharactersError creates the error for input that does not
// open with a quote.
func NewInvalidLeadingCharactersError() *SyntaxError {
	return &SyntaxError{
		Code:     CodeInvalidLeadingCharacters,
		Position: -1,
		Message:  "Invalid leading characters before first quote character",
	}
}

// NewInvalidTrailingCharactersError creates the error for input with
// characters after the closing quote.
func NewInvalidTrailingCharactersError(position int) *SyntaxError {
	return &SyntaxError{
		Code:     CodeInvalidTrailingCharacters,
		Position: position,
		Message:  fmt.Sprintf("Invalid trailing characters after last quote character at position %d", position),
	}
}

// NewInvalidEscapeCharacterError creates the error for a backslash that does
// not escape a quote.
func NewInvalidEscapeCharacterError(position int) *SyntaxError {
	return &SyntaxError{
		Code:     CodeInvalidEscapeCharacter,
		Position: position,
		Message:  fmt.Sprintf("Invalid escape character at position %d", position),
	}
}

func hasCode(err error, code ErrorCode) bool {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsInvalidLeadingCharacters reports whether err is a leading-characters error.
func IsInvalidLeadingCharacters(err error) bool {
	return hasCode(err, CodeInvalidLeadingCharacters)
}

// IsInvalidTrailingCharacters reports whether err is a trailing-characters error.
func IsInvalidTrailingCharacters(err error) bool {
	return hasCode(err, CodeInvalidTrailingCharacters)
}

// IsInvalidEscapeCharacter reports whether err is an escape error.
func IsInvalidEscapeCharacter(err error) bool {
	return hasCode(err, CodeInvalidEscapeCharacter)
}
