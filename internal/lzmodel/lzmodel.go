// Package lzmodel defines the bit-level encoding of LZ symbols (literal
// bytes and back-references) into entropy-coder contexts. It is shared by
// every entropy back-end in package entropy: the same calls that cost
// nothing against a Counting coder and estimate cost against a Size coder
// produce real output bytes against a Range coder.
package lzmodel

import "github.com/aske/shrinkler-go/internal/entropy"

const (
	// NumContexts is the total number of contexts a coder backing an
	// Encoder must provide, including the reserved slot 0 that
	// CONTEXT_REPEATED maps into and the 512 literal bit-tree contexts
	// doubled for parity.
	NumContexts = 1025
)

const (
	kindLit = 0
	kindRef = 1

	contextKind        = 0
	contextRepeated    = -1
	contextGroupOffset = 2
	contextGroupLength = 3
)

// State tracks everything encoding the next symbol needs to know about what
// came before it: whether a literal's kind bit should be coded at all, what
// the previous symbol was, the running parity of the output position (used
// to double up literal contexts), and the most recently used offset (to
// cheaply signal a repeated offset).
type State struct {
	AfterFirst bool
	PrevWasRef bool
	Parity     int
	LastOffset int
}

// Encoder codes LZ symbols against an entropy.Coder, which may be a
// Counting coder gathering statistics, a Size coder estimating cost, or a
// Range coder producing the compressed bitstream — Encoder does not know or
// care which.
type Encoder struct {
	coder      entropy.Coder
	parityMask int32
}

// New returns an Encoder driving coder. When parityContext is true, literal
// bit-tree contexts are doubled based on the output position's parity,
// letting the coder learn separate statistics for even and odd positions.
//
// If coder is a *entropy.Size, the caller is responsible for calling its
// SetNumberContexts beforehand if it wants the number-encoding cache; New
// does not configure it, since only the caller knows the block length the
// cache should cover.
func New(coder entropy.Coder, parityContext bool) *Encoder {
	e := &Encoder{coder: coder}
	if parityContext {
		e.parityMask = 1
	}
	return e
}

// SetInitialState resets state to what it should be at the very start of a
// block, before any symbol has been coded.
func (e *Encoder) SetInitialState(state *State) {
	*state = State{}
}

// ConstructState rebuilds the state that would hold right before coding the
// symbol at pos, given whether the symbol immediately preceding it was a
// reference and what that reference's (or the running) last offset was.
// The parser uses this to evaluate candidate edges without having to walk
// the whole symbol sequence from the start.
func (e *Encoder) ConstructState(state *State, pos int, prevWasRef bool, lastOffset int) {
	state.AfterFirst = pos > 0
	state.PrevWasRef = prevWasRef
	state.Parity = pos
	state.LastOffset = lastOffset
}

func (e *Encoder) parityOffset(state *State) int32 {
	return int32(state.Parity&int(e.parityMask)) << 8
}

// EncodeLiteral codes value as a literal byte, transitioning state from
// before to after, and returns the coded size in fractional bits.
func (e *Encoder) EncodeLiteral(value byte, before *State, after *State) int {
	parityOffset := e.parityOffset(before)
	size := 0

	if before.AfterFirst {
		size += e.coder.Code(1+contextKind+parityOffset, kindLit)
	}

	context := int32(1)
	for i := 7; i >= 0; i-- {
		bit := int((value >> uint(i)) & 1)
		actualContext := 1 + (parityOffset | context)
		size += e.coder.Code(actualContext, bit)
		context = (context << 1) | int32(bit)
	}

	after.AfterFirst = true
	after.PrevWasRef = false
	after.Parity = before.Parity + 1
	after.LastOffset = before.LastOffset
	return size
}

// EncodeReference codes a back-reference of length bytes from offset bytes
// behind the current position, transitioning state from before to after,
// and returns the coded size in fractional bits. offset must be >= 1 and
// length must be >= 2; before.AfterFirst must be true, since a reference
// can never be the first symbol in a block.
func (e *Encoder) EncodeReference(offset, length int, before *State, after *State) int {
	if offset < 1 {
		panic("lzmodel: EncodeReference requires offset >= 1")
	}
	if length < 2 {
		panic("lzmodel: EncodeReference requires length >= 2")
	}
	if !before.AfterFirst {
		panic("lzmodel: EncodeReference cannot be the first symbol")
	}

	parityOffset := e.parityOffset(before)
	size := e.coder.Code(1+contextKind+parityOffset, kindRef)

	repeated := offset == before.LastOffset
	if !before.PrevWasRef {
		repBit := 0
		if repeated {
			repBit = 1
		}
		size += e.coder.Code(1+contextRepeated, repBit)
	}

	if !repeated {
		size += e.coder.EncodeNumber(1+(contextGroupOffset<<8), offset+2)
	}
	size += e.coder.EncodeNumber(1+(contextGroupLength<<8), length)

	after.AfterFirst = true
	after.PrevWasRef = true
	after.Parity = before.Parity + length
	after.LastOffset = offset
	return size
}

// Finish codes the end-of-block marker (a reference with offset 0, which
// the format represents as the number 2, i.e. offset+2, in the offset group,
// with no length following) and returns its coded size.
func (e *Encoder) Finish(before *State) int {
	parityOffset := e.parityOffset(before)
	size := e.coder.Code(1+contextKind+parityOffset, kindRef)

	if !before.PrevWasRef {
		size += e.coder.Code(1+contextRepeated, 0)
	}

	size += e.coder.EncodeNumber(1+(contextGroupOffset<<8), 2)
	return size
}
