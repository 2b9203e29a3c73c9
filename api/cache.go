package cache

import (
	"time"

	boundedcache "github.com/krisalay/bounded-cache"
)

/*
Cache defines the PUBLIC API of the bounded cache.
This is a contract that guarantees certain behaviors, without exposing internals.
Both *boundedcache.Cache (single-threaded) and *boundedcache.ShardedCache
(safe for concurrent use) satisfy it.
*/
type Cache interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		- Returns the value and true if the key is present and now < expiry
		- Returns nil and false otherwise
		- Never removes anything: a stale entry stays until it is evicted
	*/
	Get(key string) (any, bool)

	/*
		Set stores a key-value pair in the cache.

		BEHAVIOR:
		---------
		- Expiry is now + max age (WithMaxAge, default 10s)
		- Tier is WithPriority, default 0
		- Re-setting a key replaces it and moves it to the most recent position
		- A new key on a full cache runs the eviction policy once first
	*/
	Set(key string, value any, opts ...boundedcache.SetOption)

	/*
		Delete removes a key immediately.
		Reports whether anything, live or stale, was removed.
	*/
	Delete(key string) bool

	/*
		TTL returns the remaining lifetime of a live key.
		Missing or stale keys report false.
	*/
	TTL(key string) (time.Duration, bool)

	/*
		Expire sets a new lifetime, counted from now, on a live key.
		Missing or stale keys report false.
	*/
	Expire(key string, maxAge time.Duration) bool

	/*
		DeleteExpired physically removes every stale entry and returns how many were removed.
	*/
	DeleteExpired() int

	// Len returns how many entries are stored, stale ones included.
	Len() int

	// Cap returns the maximum number of entries.
	Cap() int

	// Keys returns every stored key.
	Keys() []string
}

var (
	_ Cache = (*boundedcache.Cache)(nil)
	_ Cache = (*boundedcache.ShardedCache)(nil)
)
