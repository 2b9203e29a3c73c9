// This file defines how the cache finds the next entry to expire.

package expiration

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrUnknownIndex is returned by NewIndex for an unsupported IndexType.
var ErrUnknownIndex = errors.New("unknown expiry index type")

/*
Index is an ordered collection of (expiry instant, key) pairs.

The cache keeps exactly one pair per stored entry, so the minimum of the
index is always the entry that expires next. Scanning the whole store to
find expired entries is never needed.

Pairs are ordered by instant first and key second. The key tie-break
makes the order total, so two entries set at the same instant with the
same max age are always evicted in the same order.
*/
type Index interface {

	// Len returns the number of pairs.
	Len() int

	// IsEmpty reports whether the index holds no pairs.
	IsEmpty() bool

	// PeekMin returns the smallest pair without removing it.
	// Calling it on an empty index is a programming error and panics.
	PeekMin() (time.Time, string)

	// PopMin removes and returns the smallest pair. Panics when empty.
	PopMin() (time.Time, string)

	// Remove deletes a specific pair. The cache only removes pairs it
	// knows are present; removing an absent pair does nothing.
	Remove(at time.Time, key string)

	// Insert adds a pair, keeping the ascending order.
	Insert(at time.Time, key string)
}

// IndexType selects an Index implementation.
type IndexType string

const (
	// BTree keeps pairs in a B-tree. This is the default.
	BTree IndexType = "BTREE"

	// Heap keeps pairs in a binary min-heap with a key -> slot map
	// so arbitrary pairs can be removed in O(log n).
	Heap IndexType = "HEAP"
)

// NewIndex is a small factory: given an IndexType it builds the matching Index.
// The type name is matched case-insensitively; an empty name means BTree.
func NewIndex(t IndexType) (Index, error) {
	switch IndexType(strings.ToUpper(string(t))) {
	case BTree, "":
		return NewTreeIndex(), nil
	case Heap:
		return NewHeapIndex(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownIndex, "index type %q", string(t))
	}
}

// pair is one index element.
type pair struct {
	at  time.Time
	key string
}

func (p pair) less(o pair) bool {
	if p.at.Equal(o.at) {
		return p.key < o.key
	}
	return p.at.Before(o.at)
}

func mustNotBeEmpty(idx Index) {
	if idx.IsEmpty() {
		panic("expiration: min of empty index")
	}
}
