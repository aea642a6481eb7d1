package entropy

import "math"

// sizeForCount estimates the Shannon coded size of an event with the given
// count out of total occurrences, with count-1 smoothing applied by the
// caller (both count and total already include the +1). The result is
// clamped so a context that has only ever seen one outcome still has a
// finite, bounded cost.
func sizeForCount(count, total int) int {
	size := int(math.Floor(0.5 + math.Log2(float64(total)/float64(count))*(1<<BitPrecision)))
	if size < 2 {
		size = 2
	}
	if max := 12 << BitPrecision; size > max {
		size = max
	}
	return size
}

// Size turns a Counting coder's frequencies into a fixed per-context,
// per-bit cost table. It is the cost oracle the parser (package refparse)
// searches against during every pass.
type Size struct {
	sizes [][2]int

	cache *numberCache
}

// NewSize builds a Size coder from counting's current frequencies. Counts
// of zero are smoothed to one so that every context has a finite cost even
// before it has been observed.
func NewSize(counting *Counting) *Size {
	s := &Size{sizes: make([][2]int, counting.NumContexts())}
	for i := range s.sizes {
		zero, one := counting.Counts(int32(i))
		count0, count1 := 1+zero, 1+one
		total := count0 + count1
		s.sizes[i][0] = sizeForCount(count0, total)
		s.sizes[i][1] = sizeForCount(count1, total)
	}
	return s
}

// Code returns the precomputed size for the bit in context, without
// mutating any state.
func (s *Size) Code(context int32, bit int) int {
	if context >= 0 && int(context) < len(s.sizes) {
		return s.sizes[context][bit]
	}
	return 1 << BitPrecision
}

// EncodeNumber consults the number-encoding cache set up by
// SetNumberContexts, if any, falling back to the generic bit-by-bit
// encoding on a cache miss. Correctness never depends on the cache; it only
// saves repeated work during parsing.
func (s *Size) EncodeNumber(baseContext int32, n int) int {
	if s.cache != nil {
		if size, ok := s.cache.lookup(baseContext, n); ok {
			return size
		}
	}
	return EncodeNumber(s, baseContext, n)
}

// numberCache precomputes EncodeNumber(base, n) for n in [2, maxNumber) for
// a contiguous range of number-group base contexts, so parser cost queries
// become O(1) lookups instead of walking the bit encoding on every edge.
type numberCache struct {
	contextOffset int32
	perContext    [][]uint16
}

// SetNumberContexts builds the cache for nContexts consecutive number
// groups starting at contextOffset (i.e. contexts contextOffset+(i<<8) for
// i in [0, nContexts)), each covering numbers up to maxNumber.
func (s *Size) SetNumberContexts(contextOffset int32, nContexts, maxNumber int) {
	c := &numberCache{
		contextOffset: contextOffset,
		perContext:    make([][]uint16, nContexts),
	}
	for idx := 0; idx < nContexts; idx++ {
		base := contextOffset + int32(idx<<8)
		c.perContext[idx] = s.buildTable(base, maxNumber)
	}
	s.cache = c
}

// buildTable computes the cost of every number in [2, maxNumber) under
// base, reusing the fact that numbers sharing the same low payload bits
// share most of their coded bits: a number in one length class costs the
// same as the number with the same low bits in the previous class, except
// for the extra continuation bit, the moved stop bit, and the new most
// significant payload bit.
func (s *Size) buildTable(base int32, maxNumber int) []uint16 {
	table := make([]uint16, 4)
	table[2] = uint16(s.Code(base+2, 0) + s.Code(base+1, 0))
	table[3] = uint16(s.Code(base+2, 0) + s.Code(base+1, 1))
	cacheSize := len(table)

	prevBase := 2
	for dataBits := 2; dataBits < 30; dataBits++ {
		curBase := cacheSize
		baseSizeDiff := -s.Code(base+int32(dataBits)*2-2, 0) +
			s.Code(base+int32(dataBits)*2-2, 1) +
			s.Code(base+int32(dataBits)*2, 0)

		newSize := curBase + (1 << dataBits)
		if newSize > maxNumber {
			newSize = maxNumber
		}
		if newSize <= curBase {
			break
		}
		if newSize > len(table) {
			table = append(table, make([]uint16, newSize-len(table))...)
		}

		aborted := false
		for msb := 0; msb <= 1 && !aborted; msb++ {
			sizeDiff := baseSizeDiff + s.Code(base+int32(dataBits)*2-1, msb)
			for tail := 0; tail < 1<<(dataBits-1); tail++ {
				idx := curBase + msb<<(dataBits-1) + tail
				if idx >= newSize {
					aborted = true
					break
				}
				table[idx] = uint16(int(table[prevBase+tail]) + sizeDiff)
			}
		}
		if aborted {
			break
		}
		prevBase = curBase
		cacheSize = newSize
		if cacheSize >= maxNumber {
			break
		}
	}
	// Entries beyond cacheSize may be partially written by an aborted
	// round; truncate them away so lookup never sees stale data.
	return table[:cacheSize]
}

// lookup returns the cached size for n under baseContext, if the cache
// covers that context and number.
func (c *numberCache) lookup(baseContext int32, n int) (int, bool) {
	idx := (baseContext - c.contextOffset) >> 8
	if idx < 0 || int(idx) >= len(c.perContext) {
		return 0, false
	}
	table := c.perContext[idx]
	if n < 0 || n >= len(table) {
		return 0, false
	}
	return int(table[n]), true
}
