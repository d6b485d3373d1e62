package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the case's trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s @%d %q\n", ev.Seq, ev.State, ev.Pointer, ev.Char)
	}
	return buf.String()
}

func evaluateAssertion(trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertVisitsState:
		return assertVisitsState(trace, a)
	case AssertStateOrder:
		return assertStateOrder(trace, a)
	case AssertStepCount:
		return assertStepCount(trace, a)
	case AssertFinalState:
		return assertFinalState(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertVisitsState checks that the state is dispatched at least once.
func assertVisitsState(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.State == a.State {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertVisitsState,
		Expected: fmt.Sprintf("state %s visited", a.State),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertStateOrder checks that the states are first visited in the given
// order. Other states may be visited in between.
func assertStateOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range trace {
		if positions[ev.State] == 0 {
			positions[ev.State] = i + 1 // 1-indexed for readability
		}
	}

	for _, state := range a.States {
		if positions[state] == 0 {
			return &AssertionError{
				Type:     AssertStateOrder,
				Expected: fmt.Sprintf("all states visited: %v", a.States),
				Actual:   fmt.Sprintf("missing state: %s", state),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.States); i++ {
		prev, curr := a.States[i-1], a.States[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertStateOrder,
				Expected: fmt.Sprintf("states in order: %v", a.States),
				Actual: fmt.Sprintf("%s (step %d) should be before %s (step %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertStepCount checks the exact number of handler dispatches.
func assertStepCount(trace []TraceEvent, a Assertion) error {
	if len(trace) != a.Count {
		return &AssertionError{
			Type:     AssertStepCount,
			Expected: fmt.Sprintf("%d steps", a.Count),
			Actual:   fmt.Sprintf("%d steps", len(trace)),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks the state of the last dispatch.
func assertFinalState(trace []TraceEvent, a Assertion) error {
	if len(trace) == 0 {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("final state %s", a.State),
			Actual:   "empty trace",
			Trace:    trace,
		}
	}
	if last := trace[len(trace)-1].State; last != a.State {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("final state %s", a.State),
			Actual:   fmt.Sprintf("final state %s", last),
			Trace:    trace,
		}
	}
	return nil
}
