package engine

// Clock stamps dispatch steps with a per-parse sequence number.
//
// Sequence numbers start at 1 on every parse, so two parses of the same
// input through the same table produce identical step sequences. This is
// what makes recorded traces replayable.
type Clock struct {
	seq int64
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the last sequence number handed out.
func (c *Clock) Current() int64 {
	return c.seq
}

// Reset rewinds the clock so the next call to Next returns 1.
func (c *Clock) Reset() {
	c.seq = 0
}
