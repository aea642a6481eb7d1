// Package matchfind locates repeated strings in a data block, backed by a
// suffix array and its LCP array.
package matchfind

import (
	"sort"

	"github.com/aske/shrinkler-go/suffix"
)

// Finder yields, for each position in data, the set of earlier occurrences
// of the longest matching strings, nearest-occurrence first, in
// non-increasing order of match length.
type Finder struct {
	data []byte

	minLength     int
	matchPatience int
	maxSameLength int

	sa  []int32
	rsa []int32
	lcp []int32

	currentPos int
	minPos     int

	leftIndex  int
	leftLength int

	rightIndex  int
	rightLength int

	currentLength int

	buffer candidateHeap
}

// New builds a Finder over data. minLength is the shortest match worth
// reporting; matchPatience bounds how many non-extendable suffix-array
// neighbors are skipped before giving up on a given side; maxSameLength
// bounds how many candidates of the same match length are retained (the
// nearest ones, by position, are kept).
func New(data []byte, minLength, matchPatience, maxSameLength int) *Finder {
	n := len(data)
	t := make([]int32, n+1)
	for i, b := range data {
		t[i] = int32(b) + 1
	}
	t[n] = 0

	sa := make([]int32, n+1)
	suffix.Sort(t, 257, sa)

	rsa := make([]int32, n+1)
	suffix.Invert(sa, rsa)

	lcp := make([]int32, n+1)
	suffix.LCP(t, sa, rsa, lcp)

	return &Finder{
		data:          data,
		minLength:     minLength,
		matchPatience: matchPatience,
		maxSameLength: maxSameLength,
		sa:            sa,
		rsa:           rsa,
		lcp:           lcp,
	}
}

// Reset discards any candidates buffered for the current position. The
// suffix-array search pointers are left where they are.
func (f *Finder) Reset() {
	f.buffer = f.buffer[:0]
}

func mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// extendLeft walks the suffix array leftward from leftIndex, shrinking
// leftLength to the running minimum LCP, until it finds a candidate
// position within [minPos, currentPos) or exhausts its patience budget.
func (f *Finder) extendLeft() {
	iter := 0
	for f.leftLength >= f.minLength {
		f.leftIndex--
		f.leftLength = mini(f.leftLength, int(f.lcp[f.leftIndex]))
		pos := int(f.sa[f.leftIndex])
		if pos < f.currentPos && pos >= f.minPos {
			break
		}
		iter++
		if iter > f.matchPatience {
			f.leftLength = 0
			break
		}
	}
}

// extendRight is extendLeft's mirror image, walking rightward.
func (f *Finder) extendRight() {
	iter := 0
	for {
		f.rightLength = mini(f.rightLength, int(f.lcp[f.rightIndex]))
		if f.rightLength < f.minLength {
			break
		}
		f.rightIndex++
		pos := int(f.sa[f.rightIndex])
		if pos < f.currentPos && pos >= f.minPos {
			break
		}
		iter++
		if iter > f.matchPatience {
			f.rightLength = 0
			break
		}
	}
}

func (f *Finder) nextLength() int {
	return maxi(f.leftLength, f.rightLength)
}

// BeginMatching positions the finder at pos, ready to enumerate matches
// ending before pos via successive calls to Next. minPos starts at 0 for
// each position and only rises while that position's matches are
// enumerated, so candidates below it are skipped from then on.
func (f *Finder) BeginMatching(pos int) {
	f.currentPos = pos
	f.minPos = 0
	f.Reset()

	f.leftIndex = int(f.rsa[pos])
	f.leftLength = len(f.data) - pos
	f.extendLeft()

	f.rightIndex = int(f.rsa[pos])
	f.rightLength = len(f.data) - pos
	f.extendRight()
}

// Next returns the next match (by decreasing length, then by proximity to
// currentPos among matches of equal length), and false once no further
// match of at least minLength exists.
func (f *Finder) Next() (matchPos, matchLength int, ok bool) {
	if len(f.buffer) == 0 {
		f.currentLength = f.nextLength()
		if f.currentLength < f.minLength {
			return 0, 0, false
		}
		newMinPos := f.minPos
		for {
			var pos int
			if f.leftLength > f.rightLength {
				pos = int(f.sa[f.leftIndex])
				f.extendLeft()
			} else {
				pos = int(f.sa[f.rightIndex])
				f.extendRight()
			}
			newMinPos = maxi(newMinPos, pos)

			if len(f.buffer) < f.maxSameLength {
				f.buffer.push(pos)
			} else if pos > f.buffer.top() {
				f.buffer.pop()
				f.buffer.push(pos)
				f.minPos = f.buffer.top()
			}

			if f.nextLength() != f.currentLength {
				break
			}
		}
		f.minPos = newMinPos
		// Ascending order is still a valid min-heap; taking from the end
		// hands out the nearest (largest) position first.
		sort.Ints(f.buffer)
	}

	last := len(f.buffer) - 1
	matchPos = f.buffer[last]
	f.buffer = f.buffer[:last]
	return matchPos, f.currentLength, true
}
