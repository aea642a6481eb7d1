package entropy

// Counting gathers 0/1 frequencies per context. It codes nothing — Code
// always returns a size of 0 — and exists purely to collect the statistics
// a Size coder turns into a cost estimate for the next parser pass.
type Counting struct {
	counts [][2]int
}

// NewCounting returns a Counting coder with numContexts independent
// contexts, all starting at zero.
func NewCounting(numContexts int) *Counting {
	return &Counting{counts: make([][2]int, numContexts)}
}

// Code records the bit in the given context and returns 0.
func (c *Counting) Code(context int32, bit int) int {
	if context >= 0 && int(context) < len(c.counts) {
		c.counts[context][bit]++
	}
	return 0
}

// EncodeNumber records the bits of the number encoding and returns 0.
func (c *Counting) EncodeNumber(baseContext int32, n int) int {
	return EncodeNumber(c, baseContext, n)
}

// Reset zeroes every context's counts.
func (c *Counting) Reset() {
	for i := range c.counts {
		c.counts[i] = [2]int{}
	}
}

// NumContexts returns the number of contexts this coder tracks.
func (c *Counting) NumContexts() int {
	return len(c.counts)
}

// Counts returns the raw (zero, one) counts for a context, for tests and
// for Size to build its cost table from.
func (c *Counting) Counts(context int32) (zero, one int) {
	p := c.counts[context]
	return p[0], p[1]
}

// Merge returns a new Counting coder holding the 3:1 weighted average of
// old and n's counts, damping how fast statistics move from pass to pass.
func Merge(old, n *Counting) *Counting {
	if old.NumContexts() != n.NumContexts() {
		panic("entropy: Merge requires coders with the same context count")
	}
	merged := NewCounting(old.NumContexts())
	for i := range merged.counts {
		merged.counts[i][0] = (old.counts[i][0]*3 + n.counts[i][0]) / 4
		merged.counts[i][1] = (old.counts[i][1]*3 + n.counts[i][1]) / 4
	}
	return merged
}
