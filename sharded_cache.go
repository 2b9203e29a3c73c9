package cache

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/krisalay/bounded-cache/shard"
)

/*
ShardedCache spreads keys over several independent Cache instances.

Each shard is a full Cache with its own store, expiry index, eviction
policy and lock. Capacity is divided across shards, so the total number
of stored entries never exceeds the configured capacity, but eviction
decisions are made per shard: a full shard evicts from itself even if
another shard has room.

ShardedCache is safe for concurrent use.
*/
type ShardedCache struct {
	// shards are the actual storage units. Each shard is an independent mini-cache.
	shards []*lockedCache

	// selector decides which shard a key should go to.
	selector shard.Selector

	capacity int
}

// lockedCache is one shard: a Cache plus the mutex that serializes it.
type lockedCache struct {
	mu    sync.Mutex
	cache *Cache
}

/*
NewShardedCache builds a cache of the given total capacity split over shards.

The first capacity%shards shards get one extra slot so the per-shard
capacities sum to exactly capacity. Every shard must get at least one slot.
*/
func NewShardedCache(shards int, capacity int, opts ...Option) (*ShardedCache, error) {
	if shards < 1 {
		return nil, errors.Wrapf(ErrInvalidShards, "shards %d", shards)
	}
	if capacity < shards {
		return nil, errors.Wrapf(ErrInvalidCapacity, "capacity %d over %d shards", capacity, shards)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := make([]*lockedCache, shards)
	for i := range s {
		size := capacity / shards
		if i < capacity%shards {
			size++
		}

		// Each shard gets its own policy and index instance, and a logger that names it.
		so := *o
		so.logger = logger.With(zap.Int("shard", i))
		c, err := newCache(size, &so)
		if err != nil {
			return nil, errors.Wrapf(err, "shard %d", i)
		}
		s[i] = &lockedCache{cache: c}
	}

	return &ShardedCache{
		shards:   s,
		selector: shard.HashSelector{},
		capacity: capacity,
	}, nil
}

func (c *ShardedCache) shardFor(key string) *lockedCache {
	return c.shards[c.selector.Select(key, len(c.shards))]
}

// Get retrieves a live value from the shard that owns key.
func (c *ShardedCache) Get(key string) (any, bool) {
	sh := c.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Get(key)
}

// Set stores value in the shard that owns key. See Cache.Set.
func (c *ShardedCache) Set(key string, value any, opts ...SetOption) {
	sh := c.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.cache.Set(key, value, opts...)
}

// Delete removes key immediately.
func (c *ShardedCache) Delete(key string) bool {
	sh := c.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Delete(key)
}

// TTL returns remaining time-to-live of a live key.
func (c *ShardedCache) TTL(key string) (time.Duration, bool) {
	sh := c.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.TTL(key)
}

// Expire resets the expiry of a live key.
func (c *ShardedCache) Expire(key string, maxAge time.Duration) bool {
	sh := c.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Expire(key, maxAge)
}

// DeleteExpired sweeps every shard and returns the total number of removed entries.
func (c *ShardedCache) DeleteExpired() int {
	return lo.SumBy(c.shards, func(sh *lockedCache) int {
		sh.mu.Lock()
		defer sh.mu.Unlock()
		return sh.cache.DeleteExpired()
	})
}

// Len returns the number of stored entries across shards.
// Shards are visited one at a time, so under concurrent writes the sum is approximate.
func (c *ShardedCache) Len() int {
	return lo.SumBy(c.shards, func(sh *lockedCache) int {
		sh.mu.Lock()
		defer sh.mu.Unlock()
		return sh.cache.Len()
	})
}

// Cap returns the total capacity.
func (c *ShardedCache) Cap() int {
	return c.capacity
}

// Keys returns the stored keys of every shard, shard by shard, each in insertion order.
func (c *ShardedCache) Keys() []string {
	return lo.FlatMap(c.shards, func(sh *lockedCache, _ int) []string {
		sh.mu.Lock()
		defer sh.mu.Unlock()
		return sh.cache.Keys()
	})
}
