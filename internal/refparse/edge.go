package refparse

// edge is one step of a candidate LZ parse: a reference of length bytes at
// offset, starting at pos, chained back through source to the edge that
// led into it. total_size is the coded size, in fractional bits, of the
// whole block when parsed along this edge's source chain, ending with this
// reference, with every byte after the reference coded as a literal.
//
// Edges are reference counted (refcount) because the same edge can be the
// source of many candidate continuations; an edge is only recycled once
// nothing downstream still points to it.
type edge struct {
	pos       int
	offset    int
	length    int
	totalSize int
	refcount  int
	source    *edge

	heapIndex int
}

// target returns the position immediately after the reference this edge
// represents — where a continuation edge must start.
func (e *edge) target() int {
	return e.pos + e.length
}

// factory is a reference-counted arena for edges: destroyed edges are
// recycled from a free list rather than released to the garbage collector,
// since a parse over a large block can churn through millions of them.
type factory struct {
	capacity int
	count    int

	cleanedEdges    int
	maxEdgeCount    int
	maxCleanedEdges int

	freeList *edge
}

// newFactory returns a factory whose full reports true once capacity edges
// are live. create does not enforce the bound: callers evict edges (see
// parser.cleanWorstEdge) to stay under it, and create still succeeds when
// nothing can be evicted.
func newFactory(capacity int) *factory {
	return &factory{capacity: capacity}
}

// reset prepares the factory for a new pass. It panics if edges from the
// previous pass are still live, since that would mean a caller leaked a
// reference.
func (f *factory) reset() {
	if f.count != 0 {
		panic("refparse: factory reset with edges still live")
	}
	f.cleanedEdges = 0
}

// create returns a new edge, taking a reference on source (if non-nil) on
// the new edge's behalf.
func (f *factory) create(pos, offset, length, totalSize int, source *edge) *edge {
	if f.count+1 > f.maxEdgeCount {
		f.maxEdgeCount = f.count + 1
	}
	f.count++

	var e *edge
	if f.freeList == nil {
		e = &edge{}
	} else {
		e = f.freeList
		f.freeList = e.source
	}

	e.pos = pos
	e.offset = offset
	e.length = length
	e.totalSize = totalSize
	e.source = source
	e.refcount = 1
	e.heapIndex = 0

	if source != nil {
		source.refcount++
	}
	return e
}

// destroy recycles e onto the free list. clean marks the destruction as
// having happened through eviction rather than through normal edge aging,
// for the max_cleaned_edges statistic.
func (f *factory) destroy(e *edge, clean bool) {
	if e == nil {
		return
	}
	e.source = f.freeList
	f.freeList = e
	f.count--

	if clean {
		if f.cleanedEdges+1 > f.maxCleanedEdges {
			f.maxCleanedEdges = f.cleanedEdges + 1
		}
		f.cleanedEdges++
	}
}

// full reports whether the factory has reached its capacity.
func (f *factory) full() bool {
	return f.count >= f.capacity
}
