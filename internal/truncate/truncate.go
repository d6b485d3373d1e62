// Package truncate provides a parser that keeps at most a fixed number of
// characters from its input.
//
// Characters are counted after segmentation, so a limit of 3 keeps three
// runes (or three grapheme clusters), never a partial UTF-8 sequence.
package truncate

import (
	"github.com/roach88/strparse/internal/engine"
)

// DefaultLimit is the limit used when New is given a negative value.
const DefaultLimit = 10

// StateInValue is the state that counts and copies characters.
const StateInValue engine.State = 1

// Parser truncates its input. The character counter lives on the Parser and
// is reset at the start of every Parse. It is not safe for concurrent use.
type Parser struct {
	engine *engine.Engine
	limit  int
	count  int
}

// New creates a truncating parser. A negative limit selects DefaultLimit.
func New(limit int, opts ...engine.Option) *Parser {
	if limit < 0 {
		limit = DefaultLimit
	}
	p := &Parser{limit: limit}
	p.engine = engine.New(engine.HandlerTable{
		engine.StateUnknown: func(e *engine.Engine) error {
			e.SetState(StateInValue)
			return nil
		},
		StateInValue: p.handleInValue,
	}, opts...)
	return p
}

// Limit returns the maximum number of characters kept.
func (p *Parser) Limit() int {
	return p.limit
}

// Parse returns the first Limit characters of input.
func (p *Parser) Parse(input string) (string, error) {
	p.count = 0
	return p.engine.Parse(input)
}

func (p *Parser) handleInValue(e *engine.Engine) error {
	p.count++
	if p.count <= p.limit {
		e.AppendCurrent()
	}
	e.Advance()
	return nil
}
