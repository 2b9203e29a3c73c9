package expiration

import (
	"time"

	"github.com/google/btree"
)

// degree of the B-tree. Small trees dominate in practice, so a low
// degree keeps node copies cheap.
const treeDegree = 8

// TreeIndex is an Index backed by a B-tree ordered by (at, key).
type TreeIndex struct {
	tree *btree.BTreeG[pair]
}

// NewTreeIndex returns an empty TreeIndex.
func NewTreeIndex() *TreeIndex {
	return &TreeIndex{
		tree: btree.NewG[pair](treeDegree, func(a, b pair) bool {
			return a.less(b)
		}),
	}
}

func (t *TreeIndex) Len() int {
	return t.tree.Len()
}

func (t *TreeIndex) IsEmpty() bool {
	return t.tree.Len() == 0
}

func (t *TreeIndex) PeekMin() (time.Time, string) {
	mustNotBeEmpty(t)
	p, _ := t.tree.Min()
	return p.at, p.key
}

func (t *TreeIndex) PopMin() (time.Time, string) {
	mustNotBeEmpty(t)
	p, _ := t.tree.DeleteMin()
	return p.at, p.key
}

func (t *TreeIndex) Remove(at time.Time, key string) {
	t.tree.Delete(pair{at: at, key: key})
}

func (t *TreeIndex) Insert(at time.Time, key string) {
	t.tree.ReplaceOrInsert(pair{at: at, key: key})
}
