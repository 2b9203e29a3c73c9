package shard

import "github.com/cespare/xxhash/v2"

/*
This file decides HOW a cache key is assigned to a shard.
If every request went to the same shard, that shard would become a bottleneck.
*/

/*
Selector is the interface that decides which shard should handle a given key.
It returns an index in [0, n). The same key must always map to the same index.
*/
type Selector interface {
	Select(key string, n int) int
}

// HashSelector spreads keys with xxhash, a fast non-cryptographic hash.
type HashSelector struct{}

func (HashSelector) Select(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(n))
}
