package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/strparse/internal/engine"
)

// createTestStore creates a new file-backed store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a successful run with minimal required fields.
func createTestRun(id, input, output string) Run {
	return Run{
		ID:            id,
		Parser:        "passthrough",
		Config:        `{"parser":"passthrough"}`,
		Input:         input,
		Output:        output,
		ErrorPosition: -1,
	}
}

// createTestSteps creates one step per character position.
func createTestSteps(n int) []engine.StepEvent {
	steps := make([]engine.StepEvent, n)
	for i := range steps {
		steps[i] = engine.StepEvent{
			Seq:     int64(i + 1),
			State:   1,
			Pointer: i,
			Char:    string(rune('a' + i%26)),
		}
	}
	return steps
}
