// Package passthrough provides the smallest useful parser: it returns its
// input unchanged, one character at a time.
package passthrough

import (
	"github.com/roach88/strparse/internal/engine"
)

// StateInValue is the state that copies characters to the output.
const StateInValue engine.State = 1

// Parser is an identity parser. It is not safe for concurrent use.
type Parser struct {
	engine *engine.Engine
}

// New creates a pass-through parser.
func New(opts ...engine.Option) *Parser {
	return &Parser{
		engine: engine.New(engine.HandlerTable{
			engine.StateUnknown: func(e *engine.Engine) error {
				e.SetState(StateInValue)
				return nil
			},
			StateInValue: func(e *engine.Engine) error {
				e.AppendCurrent()
				e.Advance()
				return nil
			},
		}, opts...),
	}
}

// Parse returns input.
func (p *Parser) Parse(input string) (string, error) {
	return p.engine.Parse(input)
}
