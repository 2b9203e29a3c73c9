package cache

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/krisalay/bounded-cache/engine"
	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/expiration"
	"github.com/krisalay/bounded-cache/shard"
	"github.com/krisalay/bounded-cache/types"
)

/*
Cache is a bounded key-value cache with expiry-aware eviction.

It connects:
- store: key -> entry, in insertion order
- expiry: (expiry instant, key) pairs, soonest first
- policy: who to remove when a new key arrives and the cache is full
- engine: clock, defaults, metrics and logging

The store and the expiry index always hold the same set of keys. Every
method that changes one changes the other before it returns.

Cache is NOT safe for concurrent use. Wrap it in a lock, or use ShardedCache.
*/
type Cache struct {
	maxSize int

	store  *shard.Store
	expiry expiration.Index
	policy eviction.Policy
	engine *engine.CacheEngine
}

// New builds a Cache that holds at most maxSize entries.
func New(maxSize int, opts ...Option) (*Cache, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return newCache(maxSize, o)
}

func newCache(maxSize int, o *options) (*Cache, error) {
	if maxSize < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "max size %d", maxSize)
	}

	policy, err := eviction.NewEvictionPolicy(o.policy)
	if err != nil {
		return nil, err
	}
	idx, err := expiration.NewIndex(o.index)
	if err != nil {
		return nil, err
	}

	e := engine.NewCacheEngine(o.clock, o.metrics, o.logger)
	if o.defaultMaxAge != nil {
		e.DefaultMaxAge = *o.defaultMaxAge
	}
	if o.defaultPriority != nil {
		e.DefaultPriority = *o.defaultPriority
	}

	return &Cache{
		maxSize: maxSize,
		store:   shard.NewStore(),
		expiry:  idx,
		policy:  policy,
		engine:  e,
	}, nil
}

/*
Get returns the value for key if it is present and not expired.

An expired entry is reported as absent but stays in the cache until it
is evicted, deleted, or replaced by a new Set.
*/
func (c *Cache) Get(key string) (any, bool) {
	ent, ok := c.store.Get(key)
	if !ok || c.engine.IsExpired(ent, c.engine.Now()) {
		c.engine.OnRead(false)
		return nil, false
	}
	c.engine.OnRead(true)
	return ent.Value, true
}

/*
Set stores value under key.

The entry expires max age after now (WithMaxAge, default 10s) and gets
the given tier (WithPriority, default 0).

If the key is already present the old entry is removed first, so the
key moves to the most recent position and the size does not change.
If the key is new and the cache is full, the eviction policy runs once
before the insert.
*/
func (c *Cache) Set(key string, value any, opts ...SetOption) {
	so := setOptions{
		maxAge:   c.engine.DefaultMaxAge,
		priority: c.engine.DefaultPriority,
	}
	for _, opt := range opts {
		opt(&so)
	}

	now := c.engine.Now()

	if _, ok := c.store.Get(key); ok {
		c.removeEntry(key)
	} else if c.store.Len() >= c.maxSize {
		c.policy.Evict(now, evictionTarget{c})
	}

	c.insertEntry(&types.CacheEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpireAt:  now.Add(so.maxAge),
		Priority:  so.priority,
	})
}

// Delete removes key. It reports whether an entry, live or stale, was removed.
func (c *Cache) Delete(key string) bool {
	ent, ok := c.removeEntry(key)
	if ok {
		c.engine.OnRemove(ent, eviction.Deleted)
	}
	return ok
}

// Peek returns a copy of the entry stored under key, even if it is stale.
// It does not count as a hit or a miss.
func (c *Cache) Peek(key string) (*types.CacheEntry, bool) {
	ent, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	return ent.Clone(), true
}

// TTL returns how long a live entry has left. Missing and stale keys report false.
func (c *Cache) TTL(key string) (time.Duration, bool) {
	ent, ok := c.store.Get(key)
	if !ok {
		return 0, false
	}
	now := c.engine.Now()
	if c.engine.IsExpired(ent, now) {
		return 0, false
	}
	return ent.ExpireAt.Sub(now), true
}

/*
Expire resets the expiry of a live entry to now + maxAge.

The entry keeps its value, tier and recency position; only its place in
the expiry index moves. Missing and stale keys are left alone and
report false.
*/
func (c *Cache) Expire(key string, maxAge time.Duration) bool {
	ent, ok := c.store.Get(key)
	if !ok {
		return false
	}
	now := c.engine.Now()
	if c.engine.IsExpired(ent, now) {
		return false
	}

	c.expiry.Remove(ent.ExpireAt, key)
	c.policy.OnRemove(ent)
	ent.ExpireAt = now.Add(maxAge)
	c.expiry.Insert(ent.ExpireAt, key)
	c.policy.OnPut(ent)
	return true
}

// DeleteExpired physically removes every stale entry and returns how many it removed.
func (c *Cache) DeleteExpired() int {
	now := c.engine.Now()
	removed := 0
	for !c.expiry.IsEmpty() {
		at, _ := c.expiry.PeekMin()
		if at.After(now) {
			break
		}
		_, key := c.expiry.PopMin()
		ent, ok := c.store.Delete(key)
		if !ok {
			continue
		}
		c.policy.OnRemove(ent)
		c.engine.OnRemove(ent, eviction.Expired)
		removed++
	}
	return removed
}

// Len returns how many entries are physically stored, stale ones included.
func (c *Cache) Len() int {
	return c.store.Len()
}

// Cap returns the maximum number of entries.
func (c *Cache) Cap() int {
	return c.maxSize
}

// Keys returns every stored key, stale ones included, oldest insertion first.
func (c *Cache) Keys() []string {
	return c.store.Keys()
}

func (c *Cache) insertEntry(ent *types.CacheEntry) {
	c.store.Put(ent)
	c.expiry.Insert(ent.ExpireAt, ent.Key)
	c.policy.OnPut(ent)
}

func (c *Cache) removeEntry(key string) (*types.CacheEntry, bool) {
	ent, ok := c.store.Delete(key)
	if !ok {
		return nil, false
	}
	c.expiry.Remove(ent.ExpireAt, key)
	c.policy.OnRemove(ent)
	return ent, true
}

// evictionTarget exposes the cache to its eviction policy without
// widening the public API.
type evictionTarget struct {
	c *Cache
}

func (t evictionTarget) Len() int {
	return t.c.store.Len()
}

func (t evictionTarget) Expiry() expiration.Index {
	return t.c.expiry
}

func (t evictionTarget) Oldest() (*types.CacheEntry, bool) {
	return t.c.store.Oldest()
}

func (t evictionTarget) Evict(key string, reason eviction.Reason) {
	if ent, ok := t.c.removeEntry(key); ok {
		t.c.engine.OnRemove(ent, reason)
	}
}
