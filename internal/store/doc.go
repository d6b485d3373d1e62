// Package store provides SQLite-backed storage for recorded parse runs.
//
// A run is one call to Parse: which parser ran (and how it was configured),
// the input, and either the output or the error. Each run owns the ordered
// list of dispatch steps the engine reported while parsing.
//
// # Ordering
//
//   - Runs are listed in insertion order (rowid), never by wall-clock time.
//   - Steps are ordered by their per-run seq, which starts at 1.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Steps must reference an existing run
package store
