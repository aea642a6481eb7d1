// Package entropy implements the three entropy back-ends shared by the LZ
// encoder: a counting coder that gathers symbol frequencies, a
// size-measuring coder that turns those frequencies into a cost oracle for
// the parser, and a range coder that emits the final bitstream.
//
// All three present the same Coder capability so the LZ encoder
// (package lzmodel) can be driven by whichever one the caller needs without
// knowing which it got.
package entropy

// BitPrecision is the number of fractional bits used to express coded sizes:
// a returned size of 1<<BitPrecision equals one real bit.
const BitPrecision = 6

// Coder is the capability every entropy back-end provides: code a single
// bit in a context, and encode a number using the shared variable-length
// scheme. Both return the coded size of what they just did, in fractional
// bits (units of 1/2^BitPrecision of a real bit).
type Coder interface {
	Code(context int32, bit int) int
	EncodeNumber(baseContext int32, n int) int
}

// EncodeNumber implements the variable-length number encoding shared by all
// three back-ends, in terms of a Coder's Code method alone. It is exported
// so a back-end can fall back to it when its own cache (if any) misses.
//
// A number n >= 2 is encoded as a unary run of continuation bits selecting
// how many extra payload bits follow the implicit leading one, then the
// payload bits themselves, most significant first. Continuation bit i (and
// the final stop bit) live in context baseContext+2i+2; payload bit i lives
// in context baseContext+2i+1.
func EncodeNumber(c Coder, baseContext int32, n int) int {
	if n < 2 {
		panic("entropy: EncodeNumber requires n >= 2")
	}
	size := 0
	i := 0
	for (4 << i) <= n {
		size += c.Code(baseContext+int32(i)*2+2, 1)
		i++
	}
	size += c.Code(baseContext+int32(i)*2+2, 0)
	for ; i >= 0; i-- {
		bit := (n >> i) & 1
		size += c.Code(baseContext+int32(i)*2+1, bit)
	}
	return size
}
