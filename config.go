package shrinklergo

import "fmt"

// Config controls how hard the compressor works to find a small encoding of
// a block, trading CPU time for ratio.
type Config struct {
	// ParityContext splits the literal and kind context banks by the
	// parity of the current output position, widening the model to
	// capture byte-structured regularities (e.g. word-aligned data) at
	// the cost of halving how quickly each context bank adapts.
	ParityContext bool
	// Iterations is the number of parse/re-statistics refinement passes.
	Iterations int
	// LengthMargin is how many shorter-length variants of each match are
	// also tried as candidate edges, in addition to the match's full
	// length.
	LengthMargin int
	// MatchPatience bounds the suffix-array extension work done per side
	// when searching for matches at a position.
	MatchPatience int
	// MaxSameLength bounds how many candidates of the same match length
	// survive pruning at a single position.
	MaxSameLength int
	// SkipLength is the match length above which the parser abandons
	// fine-grained search and jumps to the far end of the match.
	SkipLength int
	// References is the RefEdge arena's capacity.
	References int
}

// ApplyDefaults fills in any zero-valued field from preset level 3. Call
// this before Verify if the caller only set a subset of fields.
func (cfg *Config) ApplyDefaults() {
	d := PresetConfig(3)
	if cfg.Iterations == 0 {
		cfg.Iterations = d.Iterations
	}
	if cfg.MatchPatience == 0 {
		cfg.MatchPatience = d.MatchPatience
	}
	if cfg.MaxSameLength == 0 {
		cfg.MaxSameLength = d.MaxSameLength
	}
	if cfg.SkipLength == 0 {
		cfg.SkipLength = d.SkipLength
	}
	if cfg.References == 0 {
		cfg.References = d.References
	}
	// LengthMargin and ParityContext keep their zero values if unset;
	// zero is a meaningful value for both (no margin, no parity split).
}

// Verify checks cfg for out-of-range values. Call ApplyDefaults first.
func (cfg *Config) Verify() error {
	if cfg.Iterations < 1 {
		return fmt.Errorf("%w: Iterations must be >= 1, got %d", ErrInvalidConfig, cfg.Iterations)
	}
	if cfg.LengthMargin < 0 {
		return fmt.Errorf("%w: LengthMargin must be >= 0, got %d", ErrInvalidConfig, cfg.LengthMargin)
	}
	if cfg.MatchPatience < 0 {
		return fmt.Errorf("%w: MatchPatience must be >= 0, got %d", ErrInvalidConfig, cfg.MatchPatience)
	}
	if cfg.MaxSameLength < 1 {
		return fmt.Errorf("%w: MaxSameLength must be >= 1, got %d", ErrInvalidConfig, cfg.MaxSameLength)
	}
	if cfg.SkipLength < 2 {
		return fmt.Errorf("%w: SkipLength must be >= 2, got %d", ErrInvalidConfig, cfg.SkipLength)
	}
	if cfg.References < 1000 {
		return fmt.Errorf("%w: References must be >= 1000, got %d", ErrInvalidConfig, cfg.References)
	}
	return nil
}

// PresetConfig returns the configuration for preset level p (1..9): the
// legacy compressor's parameters scale multiplicatively with the preset
// digit, except References, which has a fixed default regardless of
// preset. Levels outside 1..9 are clamped.
func PresetConfig(p int) Config {
	if p < 1 {
		p = 1
	}
	if p > 9 {
		p = 9
	}
	return Config{
		ParityContext: true,
		Iterations:    1 * p,
		LengthMargin:  1 * p,
		MatchPatience: 100 * p,
		MaxSameLength: 10 * p,
		SkipLength:    1000 * p,
		References:    100000,
	}
}
