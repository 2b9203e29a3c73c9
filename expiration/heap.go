package expiration

import (
	"container/heap"
	"time"
)

// pairHeap implements heap.Interface and keeps slots in sync so a key
// can be found in O(1) and removed in O(log n).
type pairHeap struct {
	inner []pair
	slots map[string]int
}

func (h pairHeap) Len() int {
	return len(h.inner)
}

func (h pairHeap) Less(i, j int) bool {
	return h.inner[i].less(h.inner[j])
}

func (h pairHeap) Swap(i, j int) {
	h.inner[i], h.inner[j] = h.inner[j], h.inner[i]
	h.slots[h.inner[i].key] = i
	h.slots[h.inner[j].key] = j
}

func (h *pairHeap) Push(x any) {
	p := x.(pair)
	h.slots[p.key] = len(h.inner)
	h.inner = append(h.inner, p)
}

func (h *pairHeap) Pop() any {
	arr := h.inner
	l := len(arr)
	ret := arr[l-1]
	h.inner = arr[0 : l-1]
	delete(h.slots, ret.key)
	return ret
}

// HeapIndex is an Index backed by a binary min-heap.
//
// The cache keeps one pair per key, so the slot map is keyed by key alone.
// Inserting a second pair for a key that is already indexed replaces it.
type HeapIndex struct {
	h pairHeap
}

// NewHeapIndex returns an empty HeapIndex.
func NewHeapIndex() *HeapIndex {
	return &HeapIndex{
		h: pairHeap{
			inner: make([]pair, 0),
			slots: make(map[string]int),
		},
	}
}

func (x *HeapIndex) Len() int {
	return x.h.Len()
}

func (x *HeapIndex) IsEmpty() bool {
	return x.h.Len() == 0
}

func (x *HeapIndex) PeekMin() (time.Time, string) {
	mustNotBeEmpty(x)
	p := x.h.inner[0]
	return p.at, p.key
}

func (x *HeapIndex) PopMin() (time.Time, string) {
	mustNotBeEmpty(x)
	p := heap.Pop(&x.h).(pair)
	return p.at, p.key
}

func (x *HeapIndex) Remove(at time.Time, key string) {
	i, ok := x.h.slots[key]
	if !ok || !x.h.inner[i].at.Equal(at) {
		return
	}
	heap.Remove(&x.h, i)
}

func (x *HeapIndex) Insert(at time.Time, key string) {
	if i, ok := x.h.slots[key]; ok {
		x.h.inner[i].at = at
		heap.Fix(&x.h, i)
		return
	}
	heap.Push(&x.h, pair{at: at, key: key})
}
