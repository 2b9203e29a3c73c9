package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/metrics"
	"github.com/krisalay/bounded-cache/types"
)

func TestShardedRejectsBadConfig(t *testing.T) {
	_, err := cache.NewShardedCache(0, 10)
	assert.True(t, errors.Is(err, cache.ErrInvalidShards))

	_, err = cache.NewShardedCache(4, 3)
	assert.True(t, errors.Is(err, cache.ErrInvalidCapacity))

	_, err = cache.NewShardedCache(2, 4, cache.WithPolicy("LFU"))
	assert.Error(t, err)
}

func TestShardedBasicOperations(t *testing.T) {
	clock := types.NewManualClock(time.Unix(0, 0))
	c, err := cache.NewShardedCache(4, 64, cache.WithClock(clock))
	require.NoError(t, err)
	assert.Equal(t, 64, c.Cap())

	c.Set("key1", "value1")
	v, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", v)

	c.Set("key1", "value2", cache.WithMaxAge(time.Minute))
	v, _ = c.Get("key1")
	assert.Equal(t, "value2", v)
	assert.Equal(t, 1, c.Len())

	ttl, ok := c.TTL("key1")
	require.True(t, ok)
	assert.Equal(t, time.Minute, ttl)
	assert.True(t, c.Expire("key1", time.Second))

	c.Set("gone", 1, cache.WithMaxAge(time.Second))
	assert.ElementsMatch(t, []string{"key1", "gone"}, c.Keys())

	clock.Advance(time.Second)
	_, ok = c.Get("gone")
	assert.False(t, ok)
	assert.Equal(t, 2, c.DeleteExpired())
	assert.Equal(t, 0, c.Len())

	c.Set("k", 1)
	assert.True(t, c.Delete("k"))
	assert.False(t, c.Delete("k"))
}

func TestShardedCapacityBound(t *testing.T) {
	m := &metrics.Counters{}
	c, err := cache.NewShardedCache(3, 10, cache.WithMetrics(m))
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		require.LessOrEqual(t, c.Len(), 10)
	}
	assert.Equal(t, uint64(200-c.Len()), m.Snapshot().Evictions)
}

func TestShardedLogsNameTheShard(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := cache.NewShardedCache(2, 2, cache.WithLogger(zap.New(core)))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	removed := logs.FilterMessage("cache entry removed").All()
	require.NotEmpty(t, removed)
	_, ok := removed[0].ContextMap()["shard"]
	assert.True(t, ok)
}

func TestShardedConcurrentAccess(t *testing.T) {
	c, err := cache.NewShardedCache(8, 256)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				key := fmt.Sprintf("key-%d", (id*31+j)%400)
				if j%3 == 0 {
					c.Set(key, j)
				} else {
					c.Get(key)
				}
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 256)
}
