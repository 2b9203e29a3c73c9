package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/types"
)

const (
	// DefaultMaxAge is how long an entry lives when Set is not given a max age.
	DefaultMaxAge = 10 * time.Second

	// DefaultPriority is the tier of an entry when Set is not given one.
	DefaultPriority = 0
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- What time it is
- When an entry is expired
- What an entry's expiry and tier are when the caller does not say
- How removals are recorded (metrics and logs)

It does NOT:
- Store data
- Handle sharding
- Handle locking
- Decide eviction order
*/
type CacheEngine struct {

	// Clock is the only source of "now" for the cache.
	Clock types.Clock

	// Metrics is how we keep track of what the cache is doing.
	// Hits, misses, evictions, expirations.
	Metrics types.Metrics

	// Logger receives one debug line per removed entry.
	Logger *zap.Logger

	// DefaultMaxAge and DefaultPriority fill in Set calls that omit them.
	DefaultMaxAge   time.Duration
	DefaultPriority int
}

/*
NewCacheEngine creates a CacheEngine.
Nil collaborators are replaced by defaults: the system clock, no-op
metrics and a no-op logger.
*/
func NewCacheEngine(clock types.Clock, metrics types.Metrics, logger *zap.Logger) *CacheEngine {
	if clock == nil {
		clock = types.SystemClock{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CacheEngine{
		Clock:           clock,
		Metrics:         metrics,
		Logger:          logger,
		DefaultMaxAge:   DefaultMaxAge,
		DefaultPriority: DefaultPriority,
	}
}

// Now returns the current instant from the configured clock.
func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

// IsExpired reports whether ent is stale at now.
func (e *CacheEngine) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.Expired(now)
}

// OnRead records the outcome of a Get.
func (e *CacheEngine) OnRead(hit bool) {
	if hit {
		e.Metrics.Hit()
		return
	}
	e.Metrics.Miss()
}

/*
OnRemove is called every time an entry leaves the cache.

Expired and capacity removals are counted; explicit deletes are only logged.
*/
func (e *CacheEngine) OnRemove(ent *types.CacheEntry, reason eviction.Reason) {
	switch reason {
	case eviction.Expired:
		e.Metrics.Expire()
	case eviction.Capacity:
		e.Metrics.Eviction()
	}

	if ce := e.Logger.Check(zap.DebugLevel, "cache entry removed"); ce != nil {
		ce.Write(
			zap.String("key", ent.Key),
			zap.Stringer("reason", reason),
			zap.Time("expireAt", ent.ExpireAt),
			zap.Int("priority", ent.Priority),
		)
	}
}
