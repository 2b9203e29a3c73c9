package shard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/bounded-cache/types"
)

func TestStoreOrder(t *testing.T) {
	s := NewStore()
	s.Put(&types.CacheEntry{Key: "a", Value: 1})
	s.Put(&types.CacheEntry{Key: "b", Value: 2})
	s.Put(&types.CacheEntry{Key: "c", Value: 3})
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())

	oldest, ok := s.Oldest()
	require.True(t, ok)
	assert.Equal(t, "a", oldest.Key)

	// re-put moves to the most recent position
	s.Put(&types.CacheEntry{Key: "a", Value: 10})
	assert.Equal(t, []string{"b", "c", "a"}, s.Keys())
	assert.Equal(t, 3, s.Len())

	ent, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, ent.Value)
	assert.Equal(t, uint64(4), ent.Seq)
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	_, ok := s.Oldest()
	assert.False(t, ok)

	s.Put(&types.CacheEntry{Key: "a"})
	s.Put(&types.CacheEntry{Key: "b"})

	ent, ok := s.Delete("a")
	require.True(t, ok)
	assert.Equal(t, "a", ent.Key)
	_, ok = s.Delete("a")
	assert.False(t, ok)

	_, ok = s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, s.Keys())
}

func TestHashSelector(t *testing.T) {
	var sel HashSelector
	assert.Equal(t, 0, sel.Select("anything", 1))

	seen := make(map[int]bool)
	for i := 0; i < 256; i++ {
		key := string(rune('a'+i%26)) + string(rune('A'+i/26))
		idx := sel.Select(key, 4)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 4)
		assert.Equal(t, idx, sel.Select(key, 4))
		seen[idx] = true
	}
	assert.Len(t, seen, 4)
}
