package types

import (
	"sync"
	"time"
)

/*
Clock is the time source of the cache.

The cache never reads ambient time in its core logic. Every "now" comes
from the Clock handed to it at construction, so tests can pin time and
move it forward explicitly.
*/
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process clock. time.Now carries a monotonic
// reading, so comparisons between two readings are immune to wall-clock jumps.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

/*
ManualClock is a Clock that only moves when told to.

Used by tests and by the demo shell. It is safe for concurrent use so
a ShardedCache can share one instance across shards.
*/
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock fixed at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t. Moving backwards is allowed.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
