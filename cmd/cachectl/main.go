package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/config"
	"github.com/krisalay/bounded-cache/janitor"
	"github.com/krisalay/bounded-cache/metrics"
	"github.com/krisalay/bounded-cache/types"
)

const usage = `commands:
  set <key> <value> [maxAge] [priority]
  get <key>
  del <key>
  ttl <key>
  expire <key> <maxAge>
  advance <duration>      (only with --manual-clock)
  keys
  purge
  stats
  quit`

var errUsage = errors.New("usage")

// shell is the line-oriented front end over a ShardedCache.
type shell struct {
	cache   *cache.ShardedCache
	clock   *types.ManualClock
	counter *metrics.Counters
	logger  *zap.Logger
	out     io.Writer
}

func main() {
	flags := pflag.NewFlagSet("cachectl", pflag.ExitOnError)
	cfgPath := flags.String("config", "", "path to a config file (yaml, json or toml)")
	metricsAddr := flags.String("metrics-addr", "", "serve Prometheus metrics on this address, empty disables")
	manual := flags.Bool("manual-clock", false, "drive time with the advance command instead of the system clock")
	flags.Int(config.KeyMaxSize, 1024, "total number of entries")
	flags.Int(config.KeyShards, 1, "number of independently locked shards")
	flags.Duration(config.KeyDefaultMaxAge, 10*time.Second, "max age of entries set without one")
	flags.Int(config.KeyDefaultPriority, 0, "priority of entries set without one")
	flags.String(config.KeyPolicy, "EXPIRY", "eviction policy: EXPIRY, LRU or PRIORITY")
	flags.String(config.KeyIndex, "BTREE", "expiry index: BTREE or HEAP")
	flags.String(config.KeyLogLevel, "info", "log level")
	flags.Duration(config.KeySweepInterval, 0, "drop expired entries in the background this often, 0 disables")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachectl: %v\n", err)
		os.Exit(2)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cachectl: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	counter := &metrics.Counters{}
	sink := metrics.Fanout{counter}
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err := metrics.NewCollector("cachectl", reg)
		if err != nil {
			logger.Fatal("register metrics", zap.Error(err))
		}
		sink = append(sink, collector)
		go serveMetrics(*metricsAddr, reg, logger)
	}
	opts := append(cfg.Options(), cache.WithLogger(logger), cache.WithMetrics(sink))

	var clock *types.ManualClock
	if *manual {
		clock = types.NewManualClock(time.Now())
		opts = append(opts, cache.WithClock(clock))
	}

	c, err := cache.NewShardedCache(cfg.Shards, cfg.MaxSize, opts...)
	if err != nil {
		logger.Fatal("build cache", zap.Error(err))
	}
	logger.Info("cache ready",
		zap.Int("capacity", c.Cap()),
		zap.Int("shards", cfg.Shards),
		zap.String("policy", cfg.Policy),
		zap.String("index", cfg.Index),
		zap.Duration("defaultMaxAge", cfg.DefaultMaxAge),
		zap.Bool("manualClock", *manual))

	if cfg.SweepInterval > 0 {
		j := janitor.New(c, cfg.SweepInterval, logger.Named("janitor"))
		defer j.Close()
	}

	sh := &shell{cache: c, clock: clock, counter: counter, logger: logger, out: os.Stdout}
	sh.run(os.Stdin)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}

func (s *shell) run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) > 0 {
			if args[0] == "quit" || args[0] == "exit" {
				return
			}
			if err := s.exec(args); err != nil {
				if errors.Is(err, errUsage) {
					fmt.Fprintln(s.out, usage)
				} else {
					fmt.Fprintln(s.out, "error:", err)
				}
			}
		}
		fmt.Fprint(s.out, "> ")
	}
}

func (s *shell) exec(args []string) error {
	switch args[0] {
	case "set":
		if len(args) < 3 || len(args) > 5 {
			return errUsage
		}
		var opts []cache.SetOption
		if len(args) > 3 {
			d, err := cast.ToDurationE(args[3])
			if err != nil {
				return errors.Wrapf(err, "max age %q", args[3])
			}
			opts = append(opts, cache.WithMaxAge(d))
		}
		if len(args) > 4 {
			p, err := cast.ToIntE(args[4])
			if err != nil {
				return errors.Wrapf(err, "priority %q", args[4])
			}
			opts = append(opts, cache.WithPriority(p))
		}
		s.cache.Set(args[1], args[2], opts...)
		fmt.Fprintln(s.out, "OK")

	case "get":
		if len(args) != 2 {
			return errUsage
		}
		if v, ok := s.cache.Get(args[1]); ok {
			fmt.Fprintln(s.out, cast.ToString(v))
		} else {
			fmt.Fprintln(s.out, "(nil)")
		}

	case "del":
		if len(args) != 2 {
			return errUsage
		}
		fmt.Fprintln(s.out, s.cache.Delete(args[1]))

	case "ttl":
		if len(args) != 2 {
			return errUsage
		}
		if d, ok := s.cache.TTL(args[1]); ok {
			fmt.Fprintln(s.out, d)
		} else {
			fmt.Fprintln(s.out, "(nil)")
		}

	case "expire":
		if len(args) != 3 {
			return errUsage
		}
		d, err := cast.ToDurationE(args[2])
		if err != nil {
			return errors.Wrapf(err, "max age %q", args[2])
		}
		fmt.Fprintln(s.out, s.cache.Expire(args[1], d))

	case "advance":
		if len(args) != 2 {
			return errUsage
		}
		if s.clock == nil {
			return errors.New("advance needs --manual-clock")
		}
		d, err := cast.ToDurationE(args[1])
		if err != nil {
			return errors.Wrapf(err, "duration %q", args[1])
		}
		fmt.Fprintln(s.out, s.clock.Advance(d).Format(time.RFC3339Nano))

	case "keys":
		for _, k := range s.cache.Keys() {
			fmt.Fprintln(s.out, k)
		}

	case "purge":
		n := s.cache.DeleteExpired()
		s.logger.Debug("purged expired entries", zap.Int("removed", n))
		fmt.Fprintln(s.out, n)

	case "stats":
		snap := s.counter.Snapshot()
		fmt.Fprintf(s.out, "len=%d cap=%d hits=%d misses=%d evictions=%d expired=%d hitRatio=%.2f\n",
			s.cache.Len(), s.cache.Cap(), snap.Hits, snap.Misses, snap.Evictions, snap.Expired, snap.HitRatio())

	default:
		return errUsage
	}
	return nil
}
