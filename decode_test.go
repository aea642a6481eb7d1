package shrinklergo

// This file implements a minimal, test-only decoder for the bitstream
// Compress produces. It exists purely so round-trip tests can assert
// decode(compress(d)) == d; shipping a decompressor is explicitly out of
// scope for this module (see the package doc comment in pack.go), so this
// type stays unexported and lives only in a _test.go file.
//
// The range-decoding side is grounded on the reference decompressor's
// shr_decode_bit/shr_decode_number (a 64-bit sliding window read MSB-first
// from the byte stream), which is algorithmically independent of the
// encoder's own carry-ripple bit commitment in entropy.Range — the two
// only need to agree on the bitstream layout and the context numbering,
// not on internal representation.

import "encoding/binary"

const (
	testAdjustShift = 4
	testProbInit    = 0x8000

	testContextKind        = 0
	testContextRepeated    = -1
	testContextGroupOffset = 2
	testContextGroupLength = 3

	testNumSingleContexts = 1
	testNumContexts       = testNumSingleContexts + 4*256
)

type testRangeDecoder struct {
	contexts []uint16
	src      []byte
	pos      int

	intervalSize  uint64
	intervalValue uint64
	bitsLeft      int
}

func newTestRangeDecoder(src []byte) *testRangeDecoder {
	d := &testRangeDecoder{
		contexts: make([]uint16, testNumContexts),
		src:      src,
	}
	for i := range d.contexts {
		d.contexts[i] = testProbInit
	}
	for i := 0; i < 4; i++ {
		d.intervalValue = (d.intervalValue << 8) | uint64(d.nextByte())
	}
	d.intervalValue <<= 31
	d.bitsLeft = 1
	d.intervalSize = 0x8000
	return d
}

func (d *testRangeDecoder) nextByte() byte {
	if d.pos >= len(d.src) {
		d.pos++
		return 0
	}
	b := d.src[d.pos]
	d.pos++
	return b
}

func (d *testRangeDecoder) nextUint32() uint32 {
	var buf [4]byte
	for i := range buf {
		buf[i] = d.nextByte()
	}
	return binary.BigEndian.Uint32(buf[:])
}

func (d *testRangeDecoder) decodeBit(context int32) int {
	for d.intervalSize < 0x8000 {
		if d.bitsLeft == 0 {
			d.intervalValue |= uint64(d.nextUint32())
			d.bitsLeft = 32
		}
		d.bitsLeft--
		d.intervalSize <<= 1
		d.intervalValue <<= 1
	}

	prob := uint64(d.contexts[context])
	sample := d.intervalValue >> 48
	threshold := (d.intervalSize * prob) >> 16

	if sample >= threshold {
		d.intervalValue -= threshold << 48
		d.intervalSize -= threshold
		d.contexts[context] = uint16(prob - (prob >> testAdjustShift))
		return 0
	}
	d.intervalSize = threshold
	d.contexts[context] = uint16(prob + (0xffff >> testAdjustShift) - (prob >> testAdjustShift))
	return 1
}

func (d *testRangeDecoder) decodeNumber(baseContext int32) int {
	i := 0
	for {
		if d.decodeBit(baseContext+int32(i)*2+2) == 0 {
			break
		}
		i++
	}
	number := 1
	for ; i >= 0; i-- {
		bit := d.decodeBit(baseContext + int32(i)*2 + 1)
		number = (number << 1) | bit
	}
	return number
}

// testDecompress inverts Compress's payload (the bytes after the header)
// back into the original block, given the uncompressed length and parity
// flag recorded in the header. It panics if the bitstream is malformed,
// which a test should treat as a failure.
func testDecompress(payload []byte, uncompressedSize int, parityContext bool) []byte {
	if uncompressedSize == 0 {
		return []byte{}
	}

	parityMask := 0
	if parityContext {
		parityMask = 1
	}

	d := newTestRangeDecoder(payload)
	dst := make([]byte, 0, uncompressedSize)

	ref := false
	prevWasRef := false
	offset := 0

	for {
		if ref {
			repeated := false
			if !prevWasRef {
				repeated = d.decodeBit(testNumSingleContexts+testContextRepeated) == 1
			}
			if !repeated {
				offset = d.decodeNumber(testNumSingleContexts+(testContextGroupOffset<<8)) - 2
				if offset == 0 {
					break
				}
			}
			length := d.decodeNumber(testNumSingleContexts + (testContextGroupLength << 8))
			prevWasRef = true
			for ; length > 0; length-- {
				dst = append(dst, dst[len(dst)-offset])
			}
		} else {
			parity := len(dst) & parityMask
			context := int32(1)
			for i := 7; i >= 0; i-- {
				bit := d.decodeBit(testNumSingleContexts + (int32(parity)<<8 | context))
				context = (context << 1) | int32(bit)
			}
			dst = append(dst, byte(context))
			prevWasRef = false
		}
		parity := len(dst) & parityMask
		ref = d.decodeBit(testNumSingleContexts+testContextKind+(int32(parity)<<8)) == 1
	}
	return dst
}
