package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when Get returns a live value.
	Hit()

	// Miss is called when Get finds nothing, or finds a stale entry.
	Miss()

	// Eviction is called when a live key is removed because the cache is full and needs space.
	Eviction()

	// Expire is called when a stale key is physically removed, either to make room or by DeleteExpired.
	Expire()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

It is the default, so the cache never has to check for a nil Metrics.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Expire()   {}
