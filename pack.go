// Package shrinklergo compresses a byte block into a bitstream compatible
// with the Shrinkler format: LZ77 parsing over a suffix-array match finder,
// entropy-coded with an adaptive binary range coder, refined across
// multiple passes of parse/re-statistics iteration.
//
// Decompression, CLI argument handling, Amiga hunk-file processing, and
// progress reporting are intentionally out of scope; this package is the
// compression core only.
package shrinklergo

import (
	"fmt"

	"github.com/aske/shrinkler-go/internal/entropy"
	"github.com/aske/shrinkler-go/internal/lzmodel"
	"github.com/aske/shrinkler-go/internal/matchfind"
	"github.com/aske/shrinkler-go/internal/refparse"
)

const (
	numContexts         = lzmodel.NumContexts
	numberContextOffset = 513
	numNumberContexts   = 16
)

// PassStat reports one refinement pass's outcome, for callers that want
// visibility into how the iterative driver converged.
type PassStat struct {
	Pass            int
	MeasuredSize    uint64
	RealSize        uint64
	MaxEdgeCount    int
	MaxCleanedEdges int
}

// Result is a finished compression: the framed output bytes plus
// per-pass diagnostics.
type Result struct {
	Output []byte
	Passes []PassStat
}

// Compress packs data into a Shrinkler-format container using cfg. cfg
// should have had ApplyDefaults and Verify already called, or be one of
// the PresetConfig results.
func Compress(data []byte, cfg Config) (Result, error) {
	if err := cfg.Verify(); err != nil {
		return Result{}, err
	}
	if len(data) > 1<<31-1 {
		return Result{}, ErrTooLarge
	}

	finder := matchfind.New(data, 2, cfg.MatchPatience, cfg.MaxSameLength)
	parser := refparse.New(data, 0, finder, cfg.LengthMargin, cfg.SkipLength, cfg.References)

	counting := entropy.NewCounting(numContexts)

	var bestResult refparse.Result
	haveBest := false
	var bestSize uint64 = ^uint64(0)
	stats := make([]PassStat, 0, cfg.Iterations)

	for pass := 1; pass <= cfg.Iterations; pass++ {
		size := entropy.NewSize(counting)
		size.SetNumberContexts(numberContextOffset, numNumberContexts, len(data))

		parseEncoder := lzmodel.New(size, cfg.ParityContext)
		finder.Reset()
		result, pStats := parser.Parse(parseEncoder)

		measuredSize := uint64(refparse.Encode(result, lzmodel.New(entropy.NewSize(counting), cfg.ParityContext)))

		rangeCoder := entropy.NewRange(numContexts)
		rangeEncoder := lzmodel.New(rangeCoder, cfg.ParityContext)
		realSize := uint64(refparse.Encode(result, rangeEncoder))

		if realSize < bestSize {
			bestSize = realSize
			bestResult = result
			haveBest = true
		}

		stats = append(stats, PassStat{
			Pass:            pass,
			MeasuredSize:    measuredSize,
			RealSize:        realSize,
			MaxEdgeCount:    pStats.MaxEdgeCount,
			MaxCleanedEdges: pStats.MaxCleanedEdges,
		})

		freshCounting := entropy.NewCounting(numContexts)
		countingEncoder := lzmodel.New(freshCounting, cfg.ParityContext)
		refparse.Encode(result, countingEncoder)
		counting = entropy.Merge(counting, freshCounting)
	}

	if !haveBest {
		return Result{}, fmt.Errorf("shrinklergo: no pass produced a result")
	}

	rangeCoder := entropy.NewRange(numContexts)
	finalEncoder := lzmodel.New(rangeCoder, cfg.ParityContext)
	refparse.Encode(bestResult, finalEncoder)
	payload := rangeCoder.Finish()

	header := Header{
		CompressedSize:   uint32(len(payload)),
		UncompressedSize: uint32(len(data)),
		SafetyMargin:     0,
		ParityContext:    cfg.ParityContext,
	}
	output := append(header.Marshal(), payload...)

	return Result{Output: output, Passes: stats}, nil
}
