// Package trace records parses step by step into the run store and replays
// stored runs to check that they are deterministic.
//
// A run is identified by a time-sortable UUIDv7. Each run stores the parser
// configuration, the raw input, the result and every handler dispatch
// (engine.StepEvent). Replay rebuilds the parser from the stored
// configuration, parses the same input again and reports any difference
// in output, error or step sequence.
package trace
