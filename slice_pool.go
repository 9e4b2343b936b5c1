package tron

import "github.com/delaneyj/toolbelt"

// pooledSlice recycles scratch slices of one element type through a
// toolbelt pool. Every get/put pair in this package used to be its own
// hand-written copy of this logic, one per element type; a generic wrapper
// collapses them to a single borrow/return policy so the nine call sites
// below are one-liners instead of nine near-identical function bodies.
type pooledSlice[T any] struct {
	pool *toolbelt.Pool[[]T]
}

func newPooledSlice[T any](hint int) pooledSlice[T] {
	return pooledSlice[T]{pool: toolbelt.New(func() []T { return make([]T, 0, hint) })}
}

func (p pooledSlice[T]) get(n int) []T {
	if n <= 0 {
		return nil
	}
	if s := p.pool.Get(); cap(s) >= n {
		return s[:n]
	}
	return make([]T, n)
}

// put clears every element before returning the backing array so a stale
// pointer or struct value never survives into the next borrower.
func (p pooledSlice[T]) put(s []T) {
	if s == nil {
		return
	}
	var zero T
	for i := range s {
		s[i] = zero
	}
	p.pool.Put(s[:0])
}

// pooledNode recycles single heap nodes rather than slices of them.
type pooledNode[T any] struct {
	pool *toolbelt.Pool[*T]
}

func newPooledNode[T any]() pooledNode[T] {
	return pooledNode[T]{pool: toolbelt.New(func() *T { return new(T) })}
}

func (p pooledNode[T]) get() *T { return p.pool.Get() }

func (p pooledNode[T]) put(n *T) {
	if n == nil {
		return
	}
	var zero T
	*n = zero
	p.pool.Put(n)
}

var (
	uint32Scratch    = newPooledSlice[uint32](16)
	valueScratch     = newPooledSlice[Value](16)
	mapLeafScratch   = newPooledSlice[MapLeafEntry](8)
	arrayEntryScratch = newPooledSlice[arrayEntry](16)
	mapEntryScratch  = newPooledSlice[mapEntry](8)
	mapNodeScratch   = newPooledNode[mapNode]()
	arrayNodeScratch = newPooledNode[arrayNode]()
	mapNodeListScratch   = newPooledSlice[*mapNode](8)
	arrayNodeListScratch = newPooledSlice[*arrayNode](8)
)

func getUint32Slice(n int) []uint32         { return uint32Scratch.get(n) }
func putUint32Slice(s []uint32)             { uint32Scratch.put(s) }
func getValueSlice(n int) []Value           { return valueScratch.get(n) }
func putValueSlice(s []Value)               { valueScratch.put(s) }
func getEntrySlice(n int) []MapLeafEntry    { return mapLeafScratch.get(n) }
func putEntrySlice(s []MapLeafEntry)        { mapLeafScratch.put(s) }
func getArrayEntrySlice(n int) []arrayEntry { return arrayEntryScratch.get(n) }
func putArrayEntrySlice(s []arrayEntry)     { arrayEntryScratch.put(s) }
func getMapEntrySlice(n int) []mapEntry     { return mapEntryScratch.get(n) }
func putMapEntrySlice(s []mapEntry)         { mapEntryScratch.put(s) }
func getMapNode() *mapNode                  { return mapNodeScratch.get() }
func putMapNode(n *mapNode)                 { mapNodeScratch.put(n) }
func getArrayNode() *arrayNode              { return arrayNodeScratch.get() }
func putArrayNode(n *arrayNode)             { arrayNodeScratch.put(n) }
func getMapNodeSlice(n int) []*mapNode      { return mapNodeListScratch.get(n) }
func putMapNodeSlice(s []*mapNode)          { mapNodeListScratch.put(s) }
func getArrayNodeSlice(n int) []*arrayNode  { return arrayNodeListScratch.get(n) }
func putArrayNodeSlice(s []*arrayNode)      { arrayNodeListScratch.put(s) }
