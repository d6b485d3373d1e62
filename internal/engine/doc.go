// Package engine implements the character-cursor state machine that every
// parser in strparse is built on.
//
// An Engine owns three pieces of per-parse state: a cursor into the decoded
// input, an integer State, and an output buffer. Parsing logic lives in a
// HandlerTable supplied at construction, one Handler per State.
//
// Dispatch Loop:
//  1. Parse resets cursor, state (StateUnknown) and output.
//  2. The input is split into characters (runes by default, see charseq).
//  3. While the cursor is before the end of input, the handler registered
//     for the current state is called with the engine.
//  4. The handler reads Current/Previous/Next, and may Advance, Stop,
//     SetState or AppendCurrent.
//  5. When the cursor reaches the end, the buffered output is returned.
//
// A missing handler fails the parse with *UnknownStateError. Errors returned
// by handlers are passed back from Parse unchanged.
//
// The engine does not guarantee termination. A handler that neither advances
// nor moves to another state runs forever unless WithMaxSteps is set.
//
// An Engine is not safe for concurrent use: cursor, state and output are
// fields reset in place by each Parse call.
package engine
