package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	subsystem   = "bounded_cache"
	opLabelName = "op"

	HitLabel      = "hit"
	MissLabel     = "miss"
	EvictionLabel = "eviction"
	ExpireLabel   = "expire"
)

// Collector reports cache events as a Prometheus counter vector.
type Collector struct {
	ops *prometheus.CounterVec
}

// NewCollector creates the counters under namespace and registers them on reg.
// A nil reg skips registration.
func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	ops := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_total",
			Help:      "count of cache reads and removals, by outcome",
		}, []string{opLabelName})

	if reg != nil {
		if err := reg.Register(ops); err != nil {
			return nil, errors.Wrap(err, "register cache metrics")
		}
	}

	// Pre-create every series so dashboards see zeros instead of gaps.
	for _, l := range []string{HitLabel, MissLabel, EvictionLabel, ExpireLabel} {
		ops.WithLabelValues(l)
	}
	return &Collector{ops: ops}, nil
}

func (c *Collector) Hit()      { c.ops.WithLabelValues(HitLabel).Inc() }
func (c *Collector) Miss()     { c.ops.WithLabelValues(MissLabel).Inc() }
func (c *Collector) Eviction() { c.ops.WithLabelValues(EvictionLabel).Inc() }
func (c *Collector) Expire()   { c.ops.WithLabelValues(ExpireLabel).Inc() }

// Counter exposes the underlying series for one op label.
func (c *Collector) Counter(op string) prometheus.Counter {
	return c.ops.WithLabelValues(op)
}
