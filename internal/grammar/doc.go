// Package grammar compiles declarative state machines written in CUE into
// engine handler tables.
//
// A grammar file declares one or more grammars under the top-level
// "grammar" field:
//
//	grammar: quoted: {
//		description: "Unwraps a double-quoted string"
//		state: {
//			unknown: {
//				id: 0
//				rule: [
//					{on: "\"", goto: "entering"},
//					{goto: "invalid_leading"},
//				]
//			}
//			...
//		}
//	}
//
// Each state has a numeric id (0 is the initial state) and an ordered list
// of rules. On every dispatch the rules of the current state are tried in
// order and the first one whose conditions all hold is applied.
//
// # Rule Conditions
//
//   - on:    current character equals the value
//   - prev:  previous character equals the value
//   - next:  next character equals the value
//   - first: cursor is (or is not) on the first character
//   - last:  cursor is (or is not) on the last character
//
// A rule with no conditions always matches.
//
// # Rule Effects
//
// Effects are applied in this order: clear, emit, advance, stop, goto.
// A rule with "fail" set instead ends the parse with a *FailError carrying
// the rule's code; "position: true" appends " at position N" to the message.
//
// A state with no matching rule fails with code 0. A grammar without a state
// of id 0 fails every non-empty parse with *engine.UnknownStateError.
package grammar
