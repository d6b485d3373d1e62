package trace

import "github.com/roach88/strparse/internal/engine"

// Recorder is an engine.Observer that keeps every event of the most recent
// parse. It is not safe for concurrent use; give each parser its own.
type Recorder struct {
	input  string
	steps  []engine.StepEvent
	output string
	err    error
	done   bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Begin implements engine.Observer. It discards any earlier parse.
func (r *Recorder) Begin(input string) {
	r.input = input
	r.steps = r.steps[:0]
	r.output = ""
	r.err = nil
	r.done = false
}

// Step implements engine.Observer.
func (r *Recorder) Step(ev engine.StepEvent) {
	r.steps = append(r.steps, ev)
}

// End implements engine.Observer.
func (r *Recorder) End(output string, err error) {
	r.output = output
	r.err = err
	r.done = true
}

// Input returns the input as the engine saw it, after normalization.
func (r *Recorder) Input() string { return r.input }

// Steps returns a copy of the recorded steps.
func (r *Recorder) Steps() []engine.StepEvent {
	out := make([]engine.StepEvent, len(r.steps))
	copy(out, r.steps)
	return out
}

// Output returns the output of the finished parse.
func (r *Recorder) Output() string { return r.output }

// Err returns the error of the finished parse.
func (r *Recorder) Err() error { return r.err }

// Done reports whether a parse has finished since the last Begin.
func (r *Recorder) Done() bool { return r.done }
