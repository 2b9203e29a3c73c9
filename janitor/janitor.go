package janitor

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper is anything that can drop its expired entries in one call.
// ShardedCache satisfies it. A bare Cache does too, but it must not be
// shared with a Janitor unless every other caller takes the same lock.
type Sweeper interface {
	DeleteExpired() int
}

/*
Janitor periodically removes expired entries in the background.

Reads never remove stale entries, and writes only reclaim them under
capacity pressure. A cache that is read a lot and written rarely can
therefore hold stale entries for a long time. The janitor bounds that.

Lifecycle:
- New starts one worker goroutine
- every interval the worker calls DeleteExpired on the target
- Close stops the worker and waits for the sweep in flight to finish
*/
type Janitor struct {
	target   Sweeper
	interval time.Duration
	logger   *zap.Logger

	// stop is closed by Close to tell the worker to exit.
	stop chan struct{}
	once sync.Once

	// wg waits for the worker during shutdown.
	wg sync.WaitGroup
}

// New starts a janitor sweeping target every interval. interval must be positive.
func New(target Sweeper, interval time.Duration, logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Janitor{
		target:   target,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}

	j.wg.Add(1)
	go j.worker()

	return j
}

func (j *Janitor) worker() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep runs one pass immediately and returns how many entries it removed.
func (j *Janitor) Sweep() int {
	n := j.target.DeleteExpired()
	if n > 0 {
		j.logger.Debug("swept expired entries", zap.Int("removed", n))
	}
	return n
}

// Close stops the background worker. It is safe to call more than once.
func (j *Janitor) Close() {
	j.once.Do(func() { close(j.stop) })
	j.wg.Wait()
}
