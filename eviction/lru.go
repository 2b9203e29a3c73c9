// This file implements LRU eviction.

package eviction

import (
	"time"

	"github.com/krisalay/bounded-cache/types"
)

/*
lru falls back to the least recently used entry.

Recency here is insertion order: the store appends on every Set and
re-setting a key moves it to the back. The store already keeps that
order, so the policy just asks the target for its oldest entry.
*/
type lru struct{}

func newLRU() *lru {
	return &lru{}
}

func (*lru) OnPut(*types.CacheEntry)    {}
func (*lru) OnRemove(*types.CacheEntry) {}

// Evict reclaims an expired entry if there is one, otherwise it removes
// the oldest inserted entry.
func (*lru) Evict(now time.Time, t Target) {
	if reclaimExpired(now, t) {
		return
	}
	if oldest, ok := t.Oldest(); ok {
		t.Evict(oldest.Key, Capacity)
	}
}
