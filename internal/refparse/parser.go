// Package refparse implements the graph-search LZ parser: given a match
// finder, it searches for the lowest-cost sequence of literals and
// back-references that reproduces a data block, under a given entropy
// coder's current cost model.
//
// The search is framed as shortest paths through a DAG of candidate
// references (edges), built lazily as positions are scanned left to right.
// Each offset's best-known continuation is kept as a "root" edge; when the
// edge arena is full, the root edge with the highest total size is evicted
// to bound memory use on large inputs.
package refparse

import (
	"github.com/aske/shrinkler-go/internal/lzmodel"
	"github.com/aske/shrinkler-go/internal/matchfind"
)

// Edge is one reference in a finished parse, read left to right.
type Edge struct {
	Pos    int
	Offset int
	Length int
}

// Result is a finished parse of a data block: the references to emit,
// interleaved with literals everywhere a position isn't covered by one.
type Result struct {
	Data        []byte
	ZeroPadding int
	Edges       []Edge
}

// Stats reports arena pressure for a single Parse call, for diagnostics and
// for tuning Config.References.
type Stats struct {
	MaxEdgeCount    int
	MaxCleanedEdges int
}

// Parser holds the dynamic-programming state for one data block, reused
// across passes (each pass re-parses the same block against updated cost
// estimates).
type Parser struct {
	data        []byte
	zeroPadding int
	finder      *matchfind.Finder

	lengthMargin int
	skipLength   int

	factory *factory

	literalSize []int

	edgesToPos   []map[int]*edge
	best         *edge
	bestForOffset map[int]*edge
	rootEdges    rootHeap

	encoder *lzmodel.Encoder
}

// New returns a Parser over data, backed by finder for candidate matches.
// lengthMargin controls how many shorter lengths below each match's full
// length are also tried as candidate edges (a shorter match can sometimes
// combine with a cheaper continuation to beat the longest one outright).
// skipLength is the match length past which the parser short-circuits the
// graph search and jumps straight to the end of the match, since searching
// every intermediate position of a very long match rarely changes the
// outcome. edgeCapacity bounds the arena's live edge count.
func New(data []byte, zeroPadding int, finder *matchfind.Finder, lengthMargin, skipLength, edgeCapacity int) *Parser {
	p := &Parser{
		data:          data,
		zeroPadding:   zeroPadding,
		finder:        finder,
		lengthMargin:  lengthMargin,
		skipLength:    skipLength,
		factory:       newFactory(edgeCapacity),
		literalSize:   make([]int, len(data)+1),
		edgesToPos:    make([]map[int]*edge, len(data)+1),
		bestForOffset: make(map[int]*edge),
	}
	for i := range p.edgesToPos {
		p.edgesToPos[i] = make(map[int]*edge)
	}
	return p
}

func (p *Parser) isRoot(e *edge) bool {
	return p.rootEdges.contains(e)
}

func (p *Parser) removeRoot(e *edge) {
	if p.isRoot(e) {
		p.rootEdges.remove(e)
	}
}

// releaseEdge drops one reference on e, walking back through its source
// chain and recycling any edge whose refcount reaches zero. clean is
// forwarded to the factory for statistics.
func (p *Parser) releaseEdge(e *edge, clean bool) {
	for e != nil {
		source := e.source
		e.refcount--
		if e.refcount != 0 {
			return
		}
		if p.isRoot(e) {
			panic("refparse: releasing an edge that is still a root")
		}
		p.factory.destroy(e, clean)
		e = source
	}
}

// cleanWorstEdge evicts the globally worst (highest total_size) root edge
// to make room in the factory, unless that edge is exclude or the current
// best path, in which case it is simply dropped from the root heap without
// freeing anything (a caller must try again).
func (p *Parser) cleanWorstEdge(pos int, exclude *edge) bool {
	if p.rootEdges.empty() {
		return false
	}
	worst := p.rootEdges.removeLargest()
	if worst == p.best || worst == exclude {
		return true
	}

	var container map[int]*edge
	if worst.target() > pos {
		container = p.edgesToPos[worst.target()]
	} else {
		container = p.bestForOffset
	}

	if container[worst.offset] == worst {
		delete(container, worst.offset)
		p.releaseEdge(worst, true)
	}
	return true
}

// putByOffset inserts e into byOffset keyed by e.offset, keeping only the
// cheaper of any two edges competing for the same offset; the losing edge
// (which may be e itself) is released.
func (p *Parser) putByOffset(byOffset map[int]*edge, e *edge) {
	existing, ok := byOffset[e.offset]
	switch {
	case !ok:
		byOffset[e.offset] = e
		p.rootEdges.insert(e)
	case e.totalSize < existing.totalSize:
		p.removeRoot(existing)
		p.releaseEdge(existing, false)
		byOffset[e.offset] = e
		p.rootEdges.insert(e)
	default:
		p.releaseEdge(e, false)
	}
}

// newEdge evaluates the candidate reference (pos, offset, length) continuing
// from source (or from the literal run alone, if source is nil), and
// records it as a root candidate for its target position if it survives
// competition with any edge already there.
func (p *Parser) newEdge(source *edge, pos, offset, length int) {
	if source != nil && offset == source.offset && pos == source.target() {
		return
	}

	prevTarget := 0
	if source != nil {
		prevTarget = source.target()
	}
	newTarget := pos + length

	var before, after lzmodel.State
	lastOffset := 0
	if source != nil {
		lastOffset = source.offset
	}
	p.encoder.ConstructState(&before, pos, pos == prevTarget, lastOffset)

	baseTotal := p.literalSize[len(p.data)]
	sourceTotal := baseTotal
	if source != nil {
		sourceTotal = source.totalSize
	}
	sizeBefore := sourceTotal - (baseTotal - p.literalSize[pos])

	edgeSize := p.encoder.EncodeReference(offset, length, &before, &after)
	sizeAfter := baseTotal - p.literalSize[newTarget]

	for p.factory.full() {
		if !p.cleanWorstEdge(pos, source) {
			break
		}
	}

	e := p.factory.create(pos, offset, length, sizeBefore+edgeSize+sizeAfter, source)
	p.putByOffset(p.edgesToPos[newTarget], e)
}

// Parse runs the graph search against encoder's current cost model and
// returns the lowest-cost symbol sequence found, along with arena
// pressure statistics for this pass.
func (p *Parser) Parse(encoder *lzmodel.Encoder) (Result, Stats) {
	p.encoder = encoder

	p.bestForOffset = make(map[int]*edge)
	p.rootEdges.clear()
	p.factory.reset()

	size := 0
	var literalState lzmodel.State
	encoder.SetInitialState(&literalState)
	for i, b := range p.data {
		p.literalSize[i] = size
		size += encoder.EncodeLiteral(b, &literalState, &literalState)
	}
	p.literalSize[len(p.data)] = size

	initialBest := p.factory.create(0, 0, 0, p.literalSize[len(p.data)], nil)
	p.best = initialBest

	n := len(p.data)
	for pos := 1; pos <= n; pos++ {
		for _, e := range p.edgesToPos[pos] {
			if e.totalSize < p.best.totalSize ||
				(e.totalSize == p.best.totalSize && e.offset < p.best.offset) {
				p.best = e
			}
			p.removeRoot(e)
			p.putByOffset(p.bestForOffset, e)
		}
		p.edgesToPos[pos] = make(map[int]*edge)

		p.finder.BeginMatching(pos)
		maxMatchLength := 0
		for {
			matchPos, matchLength, ok := p.finder.Next()
			if !ok {
				break
			}
			offset := pos - matchPos
			if matchLength > n-pos {
				matchLength = n - pos
			}

			minLength := matchLength - p.lengthMargin
			if minLength < 2 {
				minLength = 2
			}

			for length := minLength; length <= matchLength; length++ {
				p.newEdge(p.best, pos, offset, length)
				if existing, ok := p.bestForOffset[offset]; ok && p.best.offset != offset {
					p.newEdge(existing, pos, offset, length)
				}
			}
			if matchLength > maxMatchLength {
				maxMatchLength = matchLength
			}
		}

		if maxMatchLength >= p.skipLength && len(p.edgesToPos[pos+maxMatchLength]) > 0 {
			p.rootEdges.clear()
			for _, e := range p.bestForOffset {
				p.releaseEdge(e, false)
			}
			p.bestForOffset = make(map[int]*edge)

			targetPos := pos + maxMatchLength
			for pos < targetPos-1 {
				pos++
				for _, e := range p.edgesToPos[pos] {
					p.releaseEdge(e, false)
				}
				p.edgesToPos[pos] = make(map[int]*edge)
			}
			p.best = initialBest
		}
	}

	p.rootEdges.clear()
	for _, e := range p.bestForOffset {
		if e != p.best {
			p.releaseEdge(e, false)
		}
	}

	var edges []Edge
	e := p.best
	for e.length > 0 {
		edges = append(edges, Edge{Pos: e.pos, Offset: e.offset, Length: e.length})
		e = e.source
	}

	stats := Stats{MaxEdgeCount: p.factory.maxEdgeCount, MaxCleanedEdges: p.factory.maxCleanedEdges}

	p.releaseEdge(e, false)
	p.releaseEdge(p.best, false)

	return Result{Data: p.data, ZeroPadding: p.zeroPadding, Edges: edges}, stats
}

// Encode replays result through encoder (the parser's own cost-estimating
// encoder during a pass, or a fresh encoder over a different back-end
// entirely, such as the final range coder) and returns the coded size in
// fractional bits.
func Encode(result Result, encoder *lzmodel.Encoder) int {
	size := 0
	pos := 0
	var state lzmodel.State
	encoder.SetInitialState(&state)

	for i := len(result.Edges) - 1; i >= 0; i-- {
		e := result.Edges[i]
		for pos < e.Pos {
			size += encoder.EncodeLiteral(result.Data[pos], &state, &state)
			pos++
		}
		size += encoder.EncodeReference(e.Offset, e.Length, &state, &state)
		pos += e.Length
	}

	for pos < len(result.Data) {
		size += encoder.EncodeLiteral(result.Data[pos], &state, &state)
		pos++
	}

	switch result.ZeroPadding {
	case 0:
	case 1:
		size += encoder.EncodeLiteral(0, &state, &state)
	case 2:
		size += encoder.EncodeLiteral(0, &state, &state)
		size += encoder.EncodeLiteral(0, &state, &state)
	default:
		size += encoder.EncodeLiteral(0, &state, &state)
		size += encoder.EncodeReference(1, result.ZeroPadding-1, &state, &state)
	}

	size += encoder.Finish(&state)
	return size
}
