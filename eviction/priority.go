// This file implements priority eviction.

package eviction

import (
	"time"

	"github.com/google/btree"

	"github.com/krisalay/bounded-cache/types"
)

// rank is the position of one entry in the priority order.
type rank struct {
	priority int
	expireAt time.Time
	seq      uint64
	key      string
}

func (r rank) less(o rank) bool {
	if r.priority != o.priority {
		return r.priority < o.priority
	}
	if !r.expireAt.Equal(o.expireAt) {
		return r.expireAt.Before(o.expireAt)
	}
	if r.seq != o.seq {
		return r.seq < o.seq
	}
	return r.key < o.key
}

func rankOf(ent *types.CacheEntry) rank {
	return rank{
		priority: ent.Priority,
		expireAt: ent.ExpireAt,
		seq:      ent.Seq,
		key:      ent.Key,
	}
}

/*
priority keeps every entry in a B-tree ordered by

 1. priority, lowest first
 2. expiry instant, soonest first
 3. insertion sequence, oldest first

so a high tier entry outlives every lower tier entry under capacity
pressure. Expired entries still go first, whatever their tier.
*/
type priority struct {
	ranks *btree.BTreeG[rank]
}

func newPriority() *priority {
	return &priority{
		ranks: btree.NewG[rank](8, func(a, b rank) bool {
			return a.less(b)
		}),
	}
}

func (p *priority) OnPut(ent *types.CacheEntry) {
	p.ranks.ReplaceOrInsert(rankOf(ent))
}

func (p *priority) OnRemove(ent *types.CacheEntry) {
	p.ranks.Delete(rankOf(ent))
}

func (p *priority) Evict(now time.Time, t Target) {
	if reclaimExpired(now, t) {
		return
	}
	if r, ok := p.ranks.Min(); ok {
		t.Evict(r.key, Capacity)
	}
}
