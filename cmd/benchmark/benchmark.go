package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/expiration"
	"github.com/krisalay/bounded-cache/metrics"
)

// ================= BENCHMARK =================

func main() {
	var (
		shards      = pflag.Int("shards", 8, "number of shards")
		capacity    = pflag.Int("capacity", 200000, "total capacity")
		keySpace    = pflag.Int("keys", 300000, "distinct keys touched by the workers")
		goroutines  = pflag.Int("goroutines", 200, "concurrent workers")
		opsPerG     = pflag.Int("ops", 5000, "operations per worker")
		writeEvery  = pflag.Int("write-every", 4, "one write per this many operations")
		maxAge      = pflag.Duration("max-age", time.Minute, "max age of written entries")
		policy      = pflag.String("policy", string(eviction.EXPIRY), "eviction policy")
		index       = pflag.String("index", string(expiration.BTree), "expiry index")
	)
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	counter := &metrics.Counters{}
	c, err := cache.NewShardedCache(*shards, *capacity,
		cache.WithPolicy(eviction.PolicyType(*policy)),
		cache.WithIndex(expiration.IndexType(*index)),
		cache.WithMetrics(counter),
	)
	if err != nil {
		logger.Fatal("build cache", zap.Error(err))
	}

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", *shards)
	fmt.Println("Capacity     :", *capacity)
	fmt.Println("Key Space    :", *keySpace)
	fmt.Println("Goroutines   :", *goroutines)
	fmt.Println("Ops/Goroutine:", *opsPerG)
	fmt.Println("Policy/Index :", *policy, "/", *index)
	fmt.Println("---------------------------------")

	// ---------------- Preload Cache ----------------
	for i := 0; i < *capacity; i++ {
		c.Set(fmt.Sprintf("key-%d", i%*keySpace), i, cache.WithMaxAge(*maxAge))
	}
	logger.Info("preload complete", zap.Int("len", c.Len()))

	// ---------------- Load Test ----------------
	g, ctx := errgroup.WithContext(context.Background())
	start := time.Now()

	for i := 0; i < *goroutines; i++ {
		id := i
		g.Go(func() error {
			for j := 0; j < *opsPerG; j++ {
				if j%1000 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				key := fmt.Sprintf("key-%d", (id*7919+j)%*keySpace)
				if *writeEvery > 0 && j%*writeEvery == 0 {
					c.Set(key, j, cache.WithMaxAge(*maxAge), cache.WithPriority(j%4))
				} else {
					c.Get(key)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("load test", zap.Error(err))
	}

	duration := time.Since(start)
	totalOps := *goroutines * *opsPerG
	snap := counter.Snapshot()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hit Ratio        : %.2f\n", snap.HitRatio())
	fmt.Printf("Evictions        : %d\n", snap.Evictions)
	fmt.Printf("Expired          : %d\n", snap.Expired)
	fmt.Printf("Final Len        : %d / %d\n", c.Len(), c.Cap())
	fmt.Println("=========================================")
}
