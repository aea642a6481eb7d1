package refparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aske/shrinkler-go/internal/entropy"
	"github.com/aske/shrinkler-go/internal/lzmodel"
	"github.com/aske/shrinkler-go/internal/matchfind"
)

func newSizeEncoder(numContexts int) *lzmodel.Encoder {
	counting := entropy.NewCounting(numContexts)
	size := entropy.NewSize(counting)
	return lzmodel.New(size, false)
}

func TestParseProducesValidEdges(t *testing.T) {
	data := []byte("abcabcabcabcabcabc")
	finder := matchfind.New(data, 2, 1000, 16)
	p := New(data, 0, finder, 8, 1<<20, 10000)

	result, _ := p.Parse(newSizeEncoder(lzmodel.NumContexts))

	covered := make([]bool, len(data))
	for _, e := range result.Edges {
		if e.Pos < 0 || e.Pos+e.Length > len(data) {
			t.Fatalf("edge %+v out of range for data length %d", e, len(data))
		}
		if e.Offset < 1 || e.Offset > e.Pos {
			t.Fatalf("edge %+v has an invalid offset", e)
		}
		for i := e.Pos; i < e.Pos+e.Length; i++ {
			if covered[i] {
				t.Fatalf("position %d covered by more than one edge", i)
			}
			covered[i] = true
		}
	}
}

func TestParseReconstructsOriginalData(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox")
	finder := matchfind.New(data, 2, 1000, 16)
	p := New(data, 0, finder, 8, 1<<20, 10000)

	result, _ := p.Parse(newSizeEncoder(lzmodel.NumContexts))

	got := reconstruct(result)
	if diff := cmp.Diff(data, got); diff != "" {
		t.Fatalf("reconstructed data differs from input:\n%s", diff)
	}
}

// reconstruct replays a Result's edges against the original data the way
// a decoder would, without going through the entropy-coded bitstream, to
// check the parse's structural correctness independent of the coder.
func reconstruct(result Result) []byte {
	out := make([]byte, 0, len(result.Data))
	pos := 0
	for i := len(result.Edges) - 1; i >= 0; i-- {
		e := result.Edges[i]
		out = append(out, result.Data[pos:e.Pos]...)
		for k := 0; k < e.Length; k++ {
			out = append(out, out[len(out)-e.Offset])
		}
		pos = e.Pos + e.Length
	}
	out = append(out, result.Data[pos:]...)
	return out
}

func TestParseEmptyInput(t *testing.T) {
	finder := matchfind.New(nil, 2, 1000, 16)
	p := New(nil, 0, finder, 8, 1<<20, 10000)
	result, _ := p.Parse(newSizeEncoder(lzmodel.NumContexts))
	if len(result.Edges) != 0 {
		t.Fatalf("expected no edges for empty input, got %d", len(result.Edges))
	}
}

func TestParseNoRepeatsEncodesAllLiterals(t *testing.T) {
	data := []byte("abcdefgh")
	finder := matchfind.New(data, 2, 1000, 16)
	p := New(data, 0, finder, 8, 1<<20, 10000)
	result, _ := p.Parse(newSizeEncoder(lzmodel.NumContexts))
	if len(result.Edges) != 0 {
		t.Fatalf("expected no edges for a string with no repeats, got %d", len(result.Edges))
	}
}

func TestEncodeMatchesParseCost(t *testing.T) {
	data := []byte("mississippi river mississippi river mississippi")
	finder := matchfind.New(data, 2, 1000, 16)
	p := New(data, 0, finder, 8, 1<<20, 10000)

	counting := entropy.NewCounting(lzmodel.NumContexts)
	size := entropy.NewSize(counting)
	encoder := lzmodel.New(size, false)

	result, _ := p.Parse(encoder)

	replayEncoder := lzmodel.New(entropy.NewSize(counting), false)
	got := Encode(result, replayEncoder)
	if got <= 0 {
		t.Fatalf("Encode returned non-positive size %d", got)
	}
}

func TestParseHandlesLowEdgeCapacityByEvicting(t *testing.T) {
	data := make([]byte, 500)
	for i := range data {
		data[i] = byte('a' + i%5)
	}
	finder := matchfind.New(data, 2, 1000, 16)
	// A tiny capacity forces cleanWorstEdge to run repeatedly.
	p := New(data, 0, finder, 8, 1<<20, 8)

	result, stats := p.Parse(newSizeEncoder(lzmodel.NumContexts))
	got := reconstruct(result)
	if string(got) != string(data) {
		t.Fatal("reconstructed data mismatch under low edge capacity")
	}
	// The capacity is advisory (eviction only reclaims root edges), so
	// beyond the reconstruction check this only checks that the parse
	// created edges at all.
	if stats.MaxEdgeCount == 0 {
		t.Fatal("expected at least one edge to have been created")
	}
}

func TestParseZeroPadding(t *testing.T) {
	data := []byte("hello world")
	finder := matchfind.New(data, 2, 1000, 16)
	p := New(data, 2, finder, 8, 1<<20, 10000)
	result, _ := p.Parse(newSizeEncoder(lzmodel.NumContexts))
	if result.ZeroPadding != 2 {
		t.Fatalf("ZeroPadding = %d, want 2", result.ZeroPadding)
	}
}
