// Package harness runs conformance scenarios against the strparse parsers.
//
// # Scenario Format
//
// Scenarios are YAML files. The parser configuration is given inline, using
// the same fields as parsers.Config:
//
//	name: quoted_basics
//	description: "Unwrapping and escape handling"
//	parser: quoted
//	cases:
//	  - name: escaped_quote
//	    input: '"a\"b"'
//	    expect:
//	      output: 'a"b'
//	  - name: trailing
//	    input: '"foo" bar'
//	    expect:
//	      error: invalid_trailing_characters
//	      position: 6
//	assertions:
//	  - type: state_order
//	    case: escaped_quote
//	    states: [unknown, entering_quoted_string, in_quoted_string]
//
// A grammar scenario sets parser: grammar, grammar: <file.cue> (relative to
// the scenario) and grammar_name.
//
// # Assertion Types
//
//   - visits_state: the case dispatches the state at least once
//   - state_order: states are first visited in the given order
//   - step_count: the case makes exactly count dispatches
//   - final_state: the last dispatch is in the given state
//
// # Determinism
//
// Each case is recorded in an in-memory store under a fixed run id and
// replayed; any difference between the two parses fails the scenario.
// Snapshots (MarshalSnapshot) are byte-identical across runs, which makes
// them suitable for golden files (RunWithGolden).
package harness
