package cache_test

import (
	"fmt"
	"testing"
	"time"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/expiration"
)

func newBenchmarkCache(b *testing.B, capacity int, opts ...cache.Option) *cache.Cache {
	c, err := cache.New(capacity, opts...)
	if err != nil {
		b.Fatalf("new cache: %v", err)
	}
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkCacheGetHit(b *testing.B) {
	c := newBenchmarkCache(b, 1024)
	c.Set("key", "value", cache.WithMaxAge(time.Hour))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}

func BenchmarkCacheGetMiss(b *testing.B) {
	c := newBenchmarkCache(b, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("missing")
	}
}

//
// ================= WRITE BENCH (always full, always evicting) =================
//

func benchmarkSetEvicting(b *testing.B, opts ...cache.Option) {
	c := newBenchmarkCache(b, 10000, opts...)
	keys := make([]string, 100000)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i%len(keys)], i, cache.WithMaxAge(time.Duration(i%97)*time.Second), cache.WithPriority(i%4))
	}
}

func BenchmarkSetExpiryBTree(b *testing.B) {
	benchmarkSetEvicting(b, cache.WithIndex(expiration.BTree))
}

func BenchmarkSetExpiryHeap(b *testing.B) {
	benchmarkSetEvicting(b, cache.WithIndex(expiration.Heap))
}

func BenchmarkSetLRU(b *testing.B) {
	benchmarkSetEvicting(b, cache.WithPolicy(eviction.LRU))
}

func BenchmarkSetPriority(b *testing.B) {
	benchmarkSetEvicting(b, cache.WithPolicy(eviction.PRIORITY))
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkShardedParallelGet(b *testing.B) {
	c, err := cache.NewShardedCache(8, 100000)
	if err != nil {
		b.Fatalf("new sharded cache: %v", err)
	}
	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i, cache.WithMaxAge(time.Hour))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Get(fmt.Sprintf("key-%d", i%1000))
			i++
		}
	})
}
