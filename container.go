package shrinklergo

import (
	"encoding/binary"
	"fmt"
)

// magic identifies a Shrinkler-format raw-data container.
var magic = [4]byte{'S', 'h', 'r', 'i'}

const (
	versionMajor byte = 4
	versionMinor byte = 7

	// headerSize is the container's fixed size in bytes, not counting
	// the compressed payload that follows it.
	headerSize = 4 + 1 + 1 + 2 + 4 + 4 + 4 + 4

	flagParityContext uint32 = 1 << 0
)

// Header is the fixed-size container written ahead of the range-coded
// bitstream, describing how to interpret and re-inflate it.
type Header struct {
	CompressedSize   uint32
	UncompressedSize uint32
	SafetyMargin     uint32
	ParityContext    bool
}

// Marshal writes h in the legacy compressor's on-disk layout: a 4-byte
// magic, one version byte each for major and minor, a big-endian
// header_size (the container's size minus the 8 bytes already written),
// then big-endian compressed_size, uncompressed_size, safety_margin, and
// flags.
func (h Header) Marshal() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	buf[4] = versionMajor
	buf[5] = versionMinor
	binary.BigEndian.PutUint16(buf[6:8], uint16(headerSize-8))
	binary.BigEndian.PutUint32(buf[8:12], h.CompressedSize)
	binary.BigEndian.PutUint32(buf[12:16], h.UncompressedSize)
	binary.BigEndian.PutUint32(buf[16:20], h.SafetyMargin)

	var flags uint32
	if h.ParityContext {
		flags |= flagParityContext
	}
	binary.BigEndian.PutUint32(buf[20:24], flags)
	return buf
}

// ParseHeader reads a Header from the front of buf and returns the number
// of bytes it consumed.
func ParseHeader(buf []byte) (Header, int, error) {
	if len(buf) < headerSize {
		return Header{}, 0, fmt.Errorf("shrinklergo: header needs %d bytes, got %d", headerSize, len(buf))
	}
	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] || buf[3] != magic[3] {
		return Header{}, 0, fmt.Errorf("shrinklergo: bad magic %q", buf[0:4])
	}

	declaredHeaderSize := binary.BigEndian.Uint16(buf[6:8])
	if int(declaredHeaderSize) != headerSize-8 {
		return Header{}, 0, fmt.Errorf("shrinklergo: unsupported header_size %d", declaredHeaderSize)
	}

	flags := binary.BigEndian.Uint32(buf[20:24])
	h := Header{
		CompressedSize:   binary.BigEndian.Uint32(buf[8:12]),
		UncompressedSize: binary.BigEndian.Uint32(buf[12:16]),
		SafetyMargin:     binary.BigEndian.Uint32(buf[16:20]),
		ParityContext:    flags&flagParityContext != 0,
	}
	return h, headerSize, nil
}
