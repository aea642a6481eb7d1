package shrinklergo

import "errors"

// ErrInvalidConfig is wrapped by Config.Verify's errors; callers can test
// for it with errors.Is.
var ErrInvalidConfig = errors.New("shrinklergo: invalid configuration")

// ErrTooLarge is returned by Compress when data exceeds the implementation
// limit on block size (positions and offsets are carried in 32-bit fields
// throughout the parser and match finder).
var ErrTooLarge = errors.New("shrinklergo: input too large for a single block")
