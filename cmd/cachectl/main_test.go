package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/metrics"
	"github.com/krisalay/bounded-cache/types"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	clock := types.NewManualClock(time.Unix(0, 0))
	counter := &metrics.Counters{}
	c, err := cache.NewShardedCache(2, 4, cache.WithClock(clock), cache.WithMetrics(counter))
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return &shell{cache: c, clock: clock, counter: counter, logger: zap.NewNop(), out: out}, out
}

func TestShellSession(t *testing.T) {
	sh, out := newTestShell(t)
	sh.run(strings.NewReader(strings.Join([]string{
		"set a 1 5s",
		"get a",
		"ttl a",
		"advance 5s",
		"get a",
		"purge",
		"stats",
		"quit",
		"get never",
	}, "\n")))

	got := out.String()
	assert.Contains(t, got, "OK\n")
	assert.Contains(t, got, "> 1\n")
	assert.Contains(t, got, "5s\n")
	assert.Contains(t, got, "(nil)\n")
	assert.Contains(t, got, "len=0 cap=4 hits=1 misses=1 evictions=0 expired=1")
}

func TestShellErrors(t *testing.T) {
	sh, _ := newTestShell(t)
	assert.ErrorIs(t, sh.exec([]string{"bogus"}), errUsage)
	assert.ErrorIs(t, sh.exec([]string{"set", "k"}), errUsage)
	assert.Error(t, sh.exec([]string{"set", "k", "v", "soon"}))
	assert.Error(t, sh.exec([]string{"set", "k", "v", "1s", "high"}))
	assert.Error(t, sh.exec([]string{"expire", "k", "later"}))

	sh.clock = nil
	assert.Error(t, sh.exec([]string{"advance", "1s"}))
}

func TestShellSetWithPriorityAndExpire(t *testing.T) {
	sh, out := newTestShell(t)
	require.NoError(t, sh.exec([]string{"set", "k", "v", "1m", "3"}))
	require.NoError(t, sh.exec([]string{"expire", "k", "2m"}))
	require.NoError(t, sh.exec([]string{"ttl", "k"}))
	require.NoError(t, sh.exec([]string{"keys"}))
	require.NoError(t, sh.exec([]string{"del", "k"}))
	assert.Equal(t, "OK\ntrue\n2m0s\nk\ntrue\n", out.String())
}
