package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/strparse/internal/parsers"
)

// Scenario is a conformance scenario: one parser configuration and the
// cases it is run against.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Parser configuration (parser, limit, grammar, grammar_name,
	// graphemes, normalize, max_steps). A relative grammar path is resolved
	// against the scenario file's directory.
	Config parsers.Config `yaml:",inline"`

	// Cases are parsed in order, each with a fresh parser.
	Cases []Case `yaml:"cases"`

	// Assertions validate the step traces of individual cases.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is one input and its expected result.
type Case struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Expect Expect `yaml:"expect"`
}

// Expect is the expected result of a case: either an output or an error.
type Expect struct {
	Output *string `yaml:"output,omitempty"`

	// Error is the expected error code (see parsers.Describe), e.g.
	// "invalid_trailing_characters".
	Error string `yaml:"error,omitempty"`

	// Position is the expected error position. Only checked when set.
	Position *int `yaml:"position,omitempty"`
}

// Assertion validates the step trace of one case.
type Assertion struct {
	// Type is one of visits_state, state_order, step_count, final_state.
	Type string `yaml:"type"`

	// Case names the case whose trace is checked.
	Case string `yaml:"case"`

	// State is a state name (visits_state, final_state).
	State string `yaml:"state,omitempty"`

	// States is the expected order of first visits (state_order).
	States []string `yaml:"states,omitempty"`

	// Count is the expected number of steps (step_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertVisitsState = "visits_state"
	AssertStateOrder  = "state_order"
	AssertStepCount   = "step_count"
	AssertFinalState  = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "case:" vs "cases:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if p := scenario.Config.GrammarPath; p != "" && !filepath.IsAbs(p) {
		scenario.Config.GrammarPath = filepath.Join(filepath.Dir(path), p)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. Files whose base name does not match filter are skipped; an empty
// filter matches everything.
func LoadScenarios(dir, filter string) ([]*Scenario, []string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, nil, fmt.Errorf("glob scenarios: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	var (
		scenarios []*Scenario
		paths     []string
	)
	for _, f := range files {
		if filter != "" {
			ok, err := filepath.Match(filter, filepath.Base(f))
			if err != nil {
				return nil, nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		s, err := LoadScenario(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f, err)
		}
		scenarios = append(scenarios, s)
		paths = append(paths, f)
	}
	return scenarios, paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := s.Config.Validate(); err != nil {
		return err
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		names[c.Name] = true

		switch {
		case c.Expect.Output == nil && c.Expect.Error == "":
			return fmt.Errorf("cases[%d]: expect needs output or error", i)
		case c.Expect.Output != nil && c.Expect.Error != "":
			return fmt.Errorf("cases[%d]: expect cannot have both output and error", i)
		case c.Expect.Position != nil && c.Expect.Error == "":
			return fmt.Errorf("cases[%d]: expect position requires error", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, names); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, cases map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if !cases[a.Case] {
		return fmt.Errorf("assertions[%d]: unknown case %q", index, a.Case)
	}

	switch a.Type {
	case AssertVisitsState, AssertFinalState:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for %s", index, a.Type)
		}
	case AssertStateOrder:
		if len(a.States) == 0 {
			return fmt.Errorf("assertions[%d]: states list is required for state_order", index)
		}
	case AssertStepCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for step_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
