package shard

import (
	"container/list"

	"github.com/krisalay/bounded-cache/types"
)

/*
This file defines how entries are actually stored.

Store is a map from key to entry that also remembers insertion order.
The order is the cache's notion of recency: a key that is set again is
removed and appended, so it moves to the most recent position. Reads do
not change the order.

- Lookups go through the map: O(1)
- Order is a doubly-linked list: O(1) append, O(1) removal, O(1) oldest
*/
type Store struct {

	// items maps a key to its element in order. The element value is *types.CacheEntry.
	items map[string]*list.Element

	// order holds entries oldest first.
	order *list.List

	// seq is the next insertion sequence number.
	seq uint64
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// Get retrieves an entry by key, expired or not.
func (s *Store) Get(key string) (*types.CacheEntry, bool) {
	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	return el.Value.(*types.CacheEntry), true
}

/*
Put appends an entry at the most recent position and stamps its Seq.

If the key is already present the old entry is dropped first, so Put
never grows the store by more than one and never leaves two entries for
one key. The cache removes old entries itself before calling Put, so in
practice this only guards the invariant.
*/
func (s *Store) Put(ent *types.CacheEntry) {
	if el, ok := s.items[ent.Key]; ok {
		s.order.Remove(el)
	}
	s.seq++
	ent.Seq = s.seq
	s.items[ent.Key] = s.order.PushBack(ent)
}

// Delete removes an entry and returns it.
func (s *Store) Delete(key string) (*types.CacheEntry, bool) {
	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	delete(s.items, key)
	return s.order.Remove(el).(*types.CacheEntry), true
}

// Oldest returns the entry with the oldest insertion.
func (s *Store) Oldest() (*types.CacheEntry, bool) {
	el := s.order.Front()
	if el == nil {
		return nil, false
	}
	return el.Value.(*types.CacheEntry), true
}

// Len returns how many entries are stored.
func (s *Store) Len() int {
	return len(s.items)
}

// Keys returns every key, oldest insertion first.
func (s *Store) Keys() []string {
	out := make([]string, 0, len(s.items))
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*types.CacheEntry).Key)
	}
	return out
}
