package eviction

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/krisalay/bounded-cache/expiration"
	"github.com/krisalay/bounded-cache/types"
)

/*
This file defines how the cache decides what to remove when it runs out of space.
*/

// ErrUnknownPolicy is returned by NewEvictionPolicy for an unsupported PolicyType.
var ErrUnknownPolicy = errors.New("unknown eviction policy")

// Reason tells why an entry left the cache.
type Reason int

const (
	// Expired entries were already invalid; removing them costs nothing.
	Expired Reason = iota

	// Capacity entries were still live and were forced out to make room.
	Capacity

	// Deleted entries were removed explicitly by the caller.
	Deleted
)

func (r Reason) String() string {
	switch r {
	case Expired:
		return "expired"
	case Capacity:
		return "capacity"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

/*
Target is the view of the cache a policy works against.

A policy never touches storage directly. It reads the store size and the
expiry index, picks victims, and asks the Target to evict them. Evict
removes the key from the store, the expiry index and the policy's own
bookkeeping in one step, so the structures never drift apart.
*/
type Target interface {

	// Len returns how many entries are physically stored, stale ones included.
	Len() int

	// Expiry returns the expiry index. Policies must only read it.
	Expiry() expiration.Index

	// Oldest returns the entry with the oldest insertion.
	Oldest() (*types.CacheEntry, bool)

	// Evict removes key and records why.
	Evict(key string, reason Reason)
}

/*
Policy is the interface that all eviction strategies must follow.

The cache calls OnPut after every insertion and OnRemove after every
removal, whatever the cause, so the policy can keep its own ordering.
Evict is called when a new key arrives and the cache is full.
*/
type Policy interface {

	// OnPut is called after an entry is added to the cache.
	OnPut(*types.CacheEntry)

	// OnRemove is called after an entry left the cache.
	OnRemove(*types.CacheEntry)

	// Evict frees at least one slot when the target is not empty.
	// On an empty target it does nothing. It never fails.
	Evict(now time.Time, t Target)
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// EXPIRY removes expired entries first, then the entry that expires soonest.
	// Priority is not consulted. This is the default.
	EXPIRY PolicyType = "EXPIRY"

	// LRU removes expired entries first, then the oldest inserted entry.
	// Re-setting a key refreshes its position.
	LRU PolicyType = "LRU"

	// PRIORITY removes expired entries first, then the lowest priority
	// entry, breaking ties by soonest expiry and then by oldest insertion.
	PRIORITY PolicyType = "PRIORITY"
)

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it creates the correct eviction policy. Matching is case-insensitive
// and an empty type means EXPIRY.
func NewEvictionPolicy(t PolicyType) (Policy, error) {
	switch PolicyType(strings.ToUpper(string(t))) {
	case EXPIRY, "":
		return newExpiry(), nil
	case LRU:
		return newLRU(), nil
	case PRIORITY:
		return newPriority(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownPolicy, "policy %q", string(t))
	}
}

/*
reclaimExpired is the first step of every policy.

While the soonest-to-expire entry is already expired it is evicted. The
loop stops as soon as the store is smaller than when we started, the
index is empty, or the minimum is still live. It reports whether any
slot was freed.
*/
func reclaimExpired(now time.Time, t Target) bool {
	start := t.Len()
	idx := t.Expiry()
	for !idx.IsEmpty() && t.Len() >= start {
		at, key := idx.PeekMin()
		if at.After(now) {
			break
		}
		t.Evict(key, Expired)
	}
	return t.Len() < start
}
