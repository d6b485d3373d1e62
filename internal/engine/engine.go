package engine

import (
	"log/slog"
	"strings"

	"github.com/roach88/strparse/internal/charseq"
)

// State selects the handler that runs next. Values are meaningful only
// relative to the HandlerTable of one engine.
type State int

// StateUnknown is the state every parse starts in.
const StateUnknown State = 0

// Handler is the parsing logic bound to one State. It is called once per
// loop iteration while its state is current and mutates the engine through
// the cursor, state and output methods. A non-nil error ends the parse.
type Handler func(e *Engine) error

// HandlerTable maps each State to its Handler.
type HandlerTable map[State]Handler

// Engine is a character-by-character parser driven by a HandlerTable.
//
// INVARIANTS:
//   - handlers never changes after New
//   - pointer only moves forward within one Parse
//   - output is only appended to by handlers
type Engine struct {
	handlers HandlerTable

	chars   charseq.Sequence
	pointer int
	state   State
	output  strings.Builder

	logger    *slog.Logger
	segmenter charseq.Segmenter
	form      charseq.Form
	maxSteps  int
	observer  Observer
	clock     Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for parse diagnostics.
// The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSegmenter selects how input is split into characters.
// Default: charseq.Codepoints.
func WithSegmenter(seg charseq.Segmenter) Option {
	return func(e *Engine) {
		if seg != nil {
			e.segmenter = seg
		}
	}
}

// WithNormalization normalizes input before it is split.
func WithNormalization(form charseq.Form) Option {
	return func(e *Engine) {
		e.form = form
	}
}

// WithMaxSteps caps the number of handler calls per parse.
// Zero (the default) means no cap.
func WithMaxSteps(maxSteps int) Option {
	return func(e *Engine) {
		e.maxSteps = maxSteps
	}
}

// WithObserver registers an observer notified of every dispatch.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// New creates an Engine for the given handler table.
//
// The table is copied so later changes by the caller cannot affect
// dispatch.
func New(handlers HandlerTable, opts ...Option) *Engine {
	table := make(HandlerTable, len(handlers))
	for state, h := range handlers {
		table[state] = h
	}

	e := &Engine{
		handlers:  table,
		logger:    slog.New(slog.DiscardHandler),
		segmenter: charseq.Codepoints,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse runs the state machine over input and returns the accumulated
// output.
//
// Errors returned by handlers are returned as-is, with no output.
func (e *Engine) Parse(input string) (string, error) {
	e.reset(input)
	quota := NewQuotaEnforcer(e.maxSteps)

	e.logger.Debug("parse starting", "chars", e.chars.Len())
	if e.observer != nil {
		e.observer.Begin(e.chars.String())
	}

	for e.pointer < e.chars.Len() {
		handler, ok := e.handlers[e.state]
		if !ok {
			return e.fail(&UnknownStateError{State: e.state})
		}
		if err := quota.Check(e.state, e.pointer); err != nil {
			return e.fail(err)
		}

		if e.observer != nil {
			char, _ := e.Current()
			e.observer.Step(StepEvent{
				Seq:     e.clock.Next(),
				State:   e.state,
				Pointer: e.pointer,
				Char:    char,
			})
		}

		if err := handler(e); err != nil {
			return e.fail(err)
		}
	}

	out := e.output.String()
	e.logger.Debug("parse complete", "steps", quota.Current(), "output_len", len(out))
	if e.observer != nil {
		e.observer.End(out, nil)
	}
	return out, nil
}

func (e *Engine) reset(input string) {
	e.chars = charseq.New(e.form.Normalize(input), e.segmenter)
	e.pointer = 0
	e.state = StateUnknown
	e.output.Reset()
	e.clock.Reset()
}

func (e *Engine) fail(err error) (string, error) {
	e.logger.Debug("parse failed",
		"state", int(e.state),
		"pointer", e.pointer,
		"error", err,
	)
	e.output.Reset()
	if e.observer != nil {
		e.observer.End("", err)
	}
	return "", err
}

// Current returns the character under the cursor.
func (e *Engine) Current() (string, bool) {
	return e.chars.At(e.pointer)
}

// Previous returns the character before the cursor.
func (e *Engine) Previous() (string, bool) {
	return e.chars.At(e.pointer - 1)
}

// Next returns the character after the cursor.
func (e *Engine) Next() (string, bool) {
	return e.chars.At(e.pointer + 1)
}

// IsFirst reports whether the cursor is on the first character.
func (e *Engine) IsFirst() bool {
	if e.pointer != 0 {
		return false
	}
	_, ok := e.Current()
	return ok
}

// IsLast reports whether there is no character after the cursor.
func (e *Engine) IsLast() bool {
	_, ok := e.Next()
	return !ok
}

// Advance moves the cursor forward by one character.
func (e *Engine) Advance() {
	e.pointer++
}

// Stop moves the cursor to the end of input, ending the parse once the
// running handler returns.
func (e *Engine) Stop() {
	e.pointer = e.chars.Len()
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// SetState selects the handler for the next iteration.
func (e *Engine) SetState(s State) {
	e.state = s
}

// Pointer returns the cursor position, counted in characters.
func (e *Engine) Pointer() int {
	return e.pointer
}

// Len returns the number of characters in the input.
func (e *Engine) Len() int {
	return e.chars.Len()
}

// Input returns the text being parsed, after normalization.
func (e *Engine) Input() string {
	return e.chars.String()
}

// AppendCurrent appends the character under the cursor to the output.
// It does nothing when the cursor is past the end.
func (e *Engine) AppendCurrent() {
	if c, ok := e.Current(); ok {
		e.output.WriteString(c)
	}
}

// Output returns the output buffered so far in this parse.
func (e *Engine) Output() string {
	return e.output.String()
}

// ClearOutput discards the output buffered so far.
func (e *Engine) ClearOutput() {
	e.output.Reset()
}
