package harness

import "github.com/roach88/strparse/internal/parsers"

// TraceEvent is one handler dispatch of a case, with its state name
// resolved.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	State   string `json:"state"`
	Pointer int    `json:"pointer"`
	Char    string `json:"char"`
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name   string             `json:"name"`
	Input  string             `json:"input"`
	Output string             `json:"output"`
	Error  *parsers.ErrorInfo `json:"error,omitempty"`
	Trace  []TraceEvent       `json:"trace"`

	// Pass is true if the result matched the case's expectation.
	Pass bool `json:"-"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success: every case matched its
	// expectation, every assertion held and every run replayed identically.
	Pass bool `json:"pass"`

	Cases []CaseResult `json:"cases"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Case returns the result of the named case.
func (r *Result) Case(name string) (*CaseResult, bool) {
	for i := range r.Cases {
		if r.Cases[i].Name == name {
			return &r.Cases[i], true
		}
	}
	return nil, false
}
