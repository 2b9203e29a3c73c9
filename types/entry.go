package types

import "time"

// CacheEntry is one cached value plus the metadata eviction looks at.
// Entries are owned by the cache once set; callers only ever see copies.
type CacheEntry struct {
	Key       string
	Value     any
	CreatedAt time.Time
	ExpireAt  time.Time

	// Priority is the eviction tier. Lower values go first, but only the
	// priority eviction policy reads it.
	Priority int

	// Seq is the store insertion sequence. A re-set key gets a fresh Seq.
	Seq uint64
}

// Expired reports whether the entry is no longer valid at now.
// An entry is live strictly before ExpireAt.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpireAt)
}

// Clone returns a shallow copy, safe to hand out of the cache.
func (e *CacheEntry) Clone() *CacheEntry {
	c := *e
	return &c
}
