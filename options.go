package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/expiration"
	"github.com/krisalay/bounded-cache/types"
)

type options struct {
	clock           types.Clock
	metrics         types.Metrics
	logger          *zap.Logger
	policy          eviction.PolicyType
	index           expiration.IndexType
	defaultMaxAge   *time.Duration
	defaultPriority *int
}

// Option configures a Cache or a ShardedCache at construction.
type Option func(*options)

// WithClock sets the time source. The default reads the system clock.
func WithClock(c types.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithMetrics sets the metrics sink. The default drops every event.
func WithMetrics(m types.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPolicy selects the eviction policy. The default is eviction.EXPIRY.
func WithPolicy(p eviction.PolicyType) Option {
	return func(o *options) { o.policy = p }
}

// WithIndex selects the expiry index implementation. The default is expiration.BTree.
func WithIndex(t expiration.IndexType) Option {
	return func(o *options) { o.index = t }
}

// WithDefaultMaxAge sets the max age used by Set calls that do not pass WithMaxAge.
func WithDefaultMaxAge(d time.Duration) Option {
	return func(o *options) { o.defaultMaxAge = &d }
}

// WithDefaultPriority sets the priority used by Set calls that do not pass WithPriority.
func WithDefaultPriority(p int) Option {
	return func(o *options) { o.defaultPriority = &p }
}

type setOptions struct {
	maxAge   time.Duration
	priority int
}

// SetOption tunes a single Set call.
type SetOption func(*setOptions)

// WithMaxAge sets how long the entry stays valid, counted from the Set.
// A zero or negative age yields an entry that is already stale.
func WithMaxAge(d time.Duration) SetOption {
	return func(o *setOptions) { o.maxAge = d }
}

// WithPriority sets the eviction tier of the entry. Lower goes first.
func WithPriority(p int) SetOption {
	return func(o *setOptions) { o.priority = p }
}
