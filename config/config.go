// Package config loads cache settings from defaults, an optional file and
// BCACHE_* environment variables, in increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/engine"
	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/expiration"
)

const envPrefix = "BCACHE"

const (
	KeyMaxSize         = "max_size"
	KeyShards          = "shards"
	KeyDefaultMaxAge   = "default_max_age"
	KeyDefaultPriority = "default_priority"
	KeyPolicy          = "policy"
	KeyIndex           = "index"
	KeyLogLevel        = "log_level"
	KeySweepInterval   = "sweep_interval"
)

var ErrInvalidConfig = errors.New("invalid cache config")

// Config is the full set of knobs a cache is built from.
// A zero SweepInterval means no background janitor.
type Config struct {
	MaxSize         int           `mapstructure:"max_size"`
	Shards          int           `mapstructure:"shards"`
	DefaultMaxAge   time.Duration `mapstructure:"default_max_age"`
	DefaultPriority int           `mapstructure:"default_priority"`
	Policy          string        `mapstructure:"policy"`
	Index           string        `mapstructure:"index"`
	LogLevel        string        `mapstructure:"log_level"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyMaxSize, 1024)
	v.SetDefault(KeyShards, 1)
	v.SetDefault(KeyDefaultMaxAge, engine.DefaultMaxAge)
	v.SetDefault(KeyDefaultPriority, engine.DefaultPriority)
	v.SetDefault(KeyPolicy, string(eviction.EXPIRY))
	v.SetDefault(KeyIndex, string(expiration.BTree))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySweepInterval, time.Duration(0))
}

/*
Load reads the configuration.

path may be empty, in which case only defaults, environment and flags
apply. flags may be nil; set flags override everything else.
*/
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would make cache construction fail.
func (c *Config) Validate() error {
	if c.MaxSize < 1 {
		return errors.Wrapf(ErrInvalidConfig, "%s must be >= 1, got %d", KeyMaxSize, c.MaxSize)
	}
	if c.Shards < 1 {
		return errors.Wrapf(ErrInvalidConfig, "%s must be >= 1, got %d", KeyShards, c.Shards)
	}
	if c.Shards > c.MaxSize {
		return errors.Wrapf(ErrInvalidConfig, "%s (%d) exceeds %s (%d)", KeyShards, c.Shards, KeyMaxSize, c.MaxSize)
	}
	if c.SweepInterval < 0 {
		return errors.Wrapf(ErrInvalidConfig, "%s must not be negative, got %s", KeySweepInterval, c.SweepInterval)
	}
	if _, err := eviction.NewEvictionPolicy(eviction.PolicyType(c.Policy)); err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	if _, err := expiration.NewIndex(expiration.IndexType(c.Index)); err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%s: %v", KeyLogLevel, err)
	}
	return nil
}

// Options turns the config into cache construction options.
func (c *Config) Options() []cache.Option {
	return []cache.Option{
		cache.WithPolicy(eviction.PolicyType(c.Policy)),
		cache.WithIndex(expiration.IndexType(c.Index)),
		cache.WithDefaultMaxAge(c.DefaultMaxAge),
		cache.WithDefaultPriority(c.DefaultPriority),
	}
}

// NewLogger builds a production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s: %v", KeyLogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Encoding = "console"
	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}
