package metrics

import (
	"go.uber.org/atomic"

	"github.com/krisalay/bounded-cache/types"
)

// Counters is an in-process Metrics sink. It is safe for concurrent use,
// so one instance can be shared by every shard of a ShardedCache.
type Counters struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	expired   atomic.Uint64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Expired   uint64
}

// HitRatio returns hits / (hits + misses), or 0 when nothing was read.
func (s Snapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (c *Counters) Hit()      { c.hits.Inc() }
func (c *Counters) Miss()     { c.misses.Inc() }
func (c *Counters) Eviction() { c.evictions.Inc() }
func (c *Counters) Expire()   { c.expired.Inc() }

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Expired:   c.expired.Load(),
	}
}

// Fanout sends every event to each of its sinks.
type Fanout []types.Metrics

func (f Fanout) Hit() {
	for _, m := range f {
		m.Hit()
	}
}

func (f Fanout) Miss() {
	for _, m := range f {
		m.Miss()
	}
}

func (f Fanout) Eviction() {
	for _, m := range f {
		m.Eviction()
	}
}

func (f Fanout) Expire() {
	for _, m := range f {
		m.Expire()
	}
}
