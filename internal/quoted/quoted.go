// Package quoted implements a parser that unwraps a double-quoted string.
//
// The input must start with '"'. Inside the quotes, \" stands for a literal
// quote; any other use of '\' is an error. Nothing may follow the closing
// quote.
//
//	"foo"             -> foo
//	"foo \"bar\" baz" -> foo "bar" baz
//	foo               -> invalid leading characters
//	"foo" bar         -> invalid trailing characters at position 6
//	"foo \bar"        -> invalid escape character at position 5
//
// Input that ends before a closing quote is accepted, and everything after
// the opening quote is returned.
package quoted

import (
	"fmt"

	"github.com/roach88/strparse/internal/engine"
)

const (
	quoteDelimiter  = `"`
	escapeCharacter = `\`
)

// Parser states. engine.StateUnknown is the initial state.
const (
	StateInQuotedString            engine.State = 1
	StateLeftQuotedString          engine.State = 2
	StateInvalidLeadingCharacters  engine.State = 3
	StateInvalidTrailingCharacters engine.State = 4
	StateEnteringQuotedString      engine.State = 5
	StateInvalidEscapeCharacter    engine.State = 6
)

// StateName returns a readable name for a parser state.
func StateName(s engine.State) string {
	switch s {
	case engine.StateUnknown:
		return "unknown"
	case StateInQuotedString:
		return "in_quoted_string"
	case StateLeftQuotedString:
		return "left_quoted_string"
	case StateInvalidLeadingCharacters:
		return "invalid_leading_characters"
	case StateInvalidTrailingCharacters:
		return "invalid_trailing_characters"
	case StateEnteringQuotedString:
		return "entering_quoted_string"
	case StateInvalidEscapeCharacter:
		return "invalid_escape_character"
	default:
		return fmt.Sprintf("state_%d", s)
	}
}

// Parser unwraps quoted strings. It is not safe for concurrent use.
type Parser struct {
	engine *engine.Engine
}

// New creates a Parser. Options are passed to the underlying engine.
func New(opts ...engine.Option) *Parser {
	p := &Parser{}
	p.engine = engine.New(engine.HandlerTable{
		engine.StateUnknown:            p.handleUnknown,
		StateEnteringQuotedString:      p.handleEnteringQuotedString,
		StateInQuotedString:            p.handleInQuotedString,
		StateLeftQuotedString:          p.handleLeftQuotedString,
		StateInvalidLeadingCharacters:  p.handleInvalidLeadingCharacters,
		StateInvalidEscapeCharacter:    p.handleInvalidEscapeCharacter,
		StateInvalidTrailingCharacters: p.handleInvalidTrailingCharacters,
	}, opts...)
	return p
}

// Parse returns the unquoted, unescaped content of input.
// Errors are *SyntaxError values.
func (p *Parser) Parse(input string) (string, error) {
	return p.engine.Parse(input)
}

func (p *Parser) handleUnknown(e *engine.Engine) error {
	if c, _ := e.Current(); c == quoteDelimiter {
		e.SetState(StateEnteringQuotedString)
	} else {
		e.SetState(StateInvalidLeadingCharacters)
	}
	return nil
}

func (p *Parser) handleEnteringQuotedString(e *engine.Engine) error {
	e.Advance()
	e.SetState(StateInQuotedString)
	return nil
}

// handleInQuotedString resolves escapes by looking one character back and
// one ahead instead of keeping a separate "after backslash" state.
func (p *Parser) handleInQuotedString(e *engine.Engine) error {
	current, _ := e.Current()

	switch current {
	case quoteDelimiter:
		if prev, _ := e.Previous(); prev == escapeCharacter {
			e.AppendCurrent()
		} else {
			e.SetState(StateLeftQuotedString)
		}
		e.Advance()

	case escapeCharacter:
		// The escaped quote itself is emitted on the next iteration.
		if next, _ := e.Next(); next == quoteDelimiter {
			e.Advance()
		} else {
			e.SetState(StateInvalidEscapeCharacter)
		}

	default:
		e.AppendCurrent()
		e.Advance()
	}
	return nil
}

func (p *Parser) handleLeftQuotedString(e *engine.Engine) error {
	// Anything after the closing quote is an error. The reported position is
	// one past the first trailing character, unless that character is the
	// last one: advancing would end the parse before the error is raised.
	e.SetState(StateInvalidTrailingCharacters)
	if !e.IsLast() {
		e.Advance()
	}
	return nil
}

func (p *Parser) handleInvalidLeadingCharacters(e *engine.Engine) error {
	return NewInvalidLeadingCharactersError()
}

func (p *Parser) handleInvalidEscapeCharacter(e *engine.Engine) error {
	return NewInvalidEscapeCharacterError(e.Pointer())
}

func (p *Parser) handleInvalidTrailingCharacters(e *engine.Engine) error {
	return NewInvalidTrailingCharactersError(e.Pointer())
}
