package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/krisalay/bounded-cache"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		MaxSize:         1024,
		Shards:          1,
		DefaultMaxAge:   10 * time.Second,
		DefaultPriority: 0,
		Policy:          "EXPIRY",
		Index:           "BTREE",
		LogLevel:        "info",
	}, cfg)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"max_size: 64\nshards: 4\ndefault_max_age: 1m\npolicy: priority\nindex: heap\nsweep_interval: 30s\n"), 0o600))

	t.Setenv("BCACHE_DEFAULT_PRIORITY", "7")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyLogLevel, "info", "")
	require.NoError(t, flags.Parse([]string{"--log_level=debug"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxSize)
	assert.Equal(t, 4, cfg.Shards)
	assert.Equal(t, time.Minute, cfg.DefaultMaxAge)
	assert.Equal(t, 7, cfg.DefaultPriority)
	assert.Equal(t, "priority", cfg.Policy)
	assert.Equal(t, "heap", cfg.Index)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	c, err := cache.NewShardedCache(cfg.Shards, cfg.MaxSize, cfg.Options()...)
	require.NoError(t, err)
	assert.Equal(t, 64, c.Cap())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{MaxSize: 8, Shards: 2, Policy: "LRU", Index: "BTREE", LogLevel: "warn"}
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(*Config){
		"zero size":      func(c *Config) { c.MaxSize = 0 },
		"zero shards":    func(c *Config) { c.Shards = 0 },
		"too many":       func(c *Config) { c.Shards = 9 },
		"bad policy":     func(c *Config) { c.Policy = "LFU" },
		"bad index":      func(c *Config) { c.Index = "skiplist" },
		"bad log level":  func(c *Config) { c.LogLevel = "loud" },
		"negative sweep": func(c *Config) { c.SweepInterval = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			err := c.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}
