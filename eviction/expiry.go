package eviction

import (
	"time"

	"github.com/krisalay/bounded-cache/types"
)

// expiry is the default policy. It keeps no state of its own: the
// expiry index already orders every entry by the instant it goes stale.
type expiry struct{}

func newExpiry() *expiry {
	return &expiry{}
}

func (*expiry) OnPut(*types.CacheEntry)    {}
func (*expiry) OnRemove(*types.CacheEntry) {}

// Evict reclaims an expired entry if there is one, otherwise it forces out
// the entry that expires soonest, live or not.
func (*expiry) Evict(now time.Time, t Target) {
	if reclaimExpired(now, t) {
		return
	}
	idx := t.Expiry()
	if idx.IsEmpty() {
		return
	}
	_, key := idx.PeekMin()
	t.Evict(key, Capacity)
}
