package grammar

import (
	"fmt"

	"github.com/roach88/strparse/internal/engine"
)

// Grammar is a compiled state machine definition.
type Grammar struct {
	Name        string
	Description string
	States      []State // in declaration order
}

// State is one named state of a grammar.
type State struct {
	Name  string
	ID    engine.State
	Rules []Rule
}

// Rule is one condition/effect pair. Condition fields left nil always
// match.
type Rule struct {
	On    *string
	Prev  *string
	Next  *string
	First *bool
	Last  *bool

	Clear   bool
	Emit    bool
	Advance bool
	Stop    bool
	Goto    string

	Fail     string
	Code     int
	Position bool

	gotoID engine.State
}

// StateName returns the name of the state with the given id.
func (g *Grammar) StateName(id engine.State) (string, bool) {
	for _, s := range g.States {
		if s.ID == id {
			return s.Name, true
		}
	}
	return "", false
}

// Table builds the engine handler table for the grammar.
func (g *Grammar) Table() engine.HandlerTable {
	table := make(engine.HandlerTable, len(g.States))
	for i := range g.States {
		st := g.States[i]
		table[st.ID] = func(e *engine.Engine) error {
			return g.dispatch(&st, e)
		}
	}
	return table
}

// Parser creates a parser running this grammar.
func (g *Grammar) Parser(opts ...engine.Option) *Parser {
	return &Parser{
		grammar: g,
		engine:  engine.New(g.Table(), opts...),
	}
}

func (g *Grammar) dispatch(st *State, e *engine.Engine) error {
	for i := range st.Rules {
		r := &st.Rules[i]
		if !r.matches(e) {
			continue
		}
		if r.Fail != "" {
			return g.fail(st, r, e)
		}
		r.apply(e)
		return nil
	}

	c, _ := e.Current()
	return &FailError{
		Grammar:  g.Name,
		State:    st.Name,
		Code:     CodeNoMatchingRule,
		Position: e.Pointer(),
		Message:  fmt.Sprintf("no rule of state %s matches %q at position %d", st.Name, c, e.Pointer()),
	}
}

func (g *Grammar) fail(st *State, r *Rule, e *engine.Engine) error {
	fe := &FailError{
		Grammar:  g.Name,
		State:    st.Name,
		Code:     r.Code,
		Position: -1,
		Message:  r.Fail,
	}
	if r.Position {
		fe.Position = e.Pointer()
		fe.Message = fmt.Sprintf("%s at position %d", r.Fail, e.Pointer())
	}
	return fe
}

func (r *Rule) matches(e *engine.Engine) bool {
	if r.On != nil && !charIs(e.Current, *r.On) {
		return false
	}
	if r.Prev != nil && !charIs(e.Previous, *r.Prev) {
		return false
	}
	if r.Next != nil && !charIs(e.Next, *r.Next) {
		return false
	}
	if r.First != nil && e.IsFirst() != *r.First {
		return false
	}
	if r.Last != nil && e.IsLast() != *r.Last {
		return false
	}
	return true
}

func charIs(get func() (string, bool), want string) bool {
	c, ok := get()
	return ok && c == want
}

func (r *Rule) apply(e *engine.Engine) {
	if r.Clear {
		e.ClearOutput()
	}
	if r.Emit {
		e.AppendCurrent()
	}
	if r.Advance {
		e.Advance()
	}
	if r.Stop {
		e.Stop()
	}
	if r.Goto != "" {
		e.SetState(r.gotoID)
	}
}

// Parser runs a compiled grammar. It is not safe for concurrent use.
type Parser struct {
	grammar *Grammar
	engine  *engine.Engine
}

// Grammar returns the grammar the parser runs.
func (p *Parser) Grammar() *Grammar {
	return p.grammar
}

// Parse runs the grammar over input.
func (p *Parser) Parse(input string) (string, error) {
	return p.engine.Parse(input)
}
