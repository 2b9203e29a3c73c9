package cache

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidCapacity is returned when a cache is built with room for no entries.
	ErrInvalidCapacity = errors.New("cache capacity must be at least 1")

	// ErrInvalidShards is returned when a sharded cache is built with fewer than one shard.
	ErrInvalidShards = errors.New("shard count must be at least 1")
)
