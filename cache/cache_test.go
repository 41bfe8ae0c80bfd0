package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenGetHits(t *testing.T) {
	s, err := NewStore(Options{TTL: time.Minute, EnableStatistics: true})
	require.NoError(t, err)
	defer s.Close()

	key := IntersectionKey([]string{"b", "a"}, "T", 10.123456789, -5, 1e-3)
	s.Set(key, "resolved", 1)

	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "resolved", got)
	assert.Equal(t, int64(1), s.Statistics().Hits)
}

func TestGetMissIncrementsStats(t *testing.T) {
	s, err := NewStore(Options{EnableStatistics: true})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Get("missing")
	assert.False(t, ok, "expected miss for unset key")
	assert.Equal(t, int64(1), s.Statistics().Misses)
}

func TestIntersectionKeyIsOrderIndependent(t *testing.T) {
	k1 := IntersectionKey([]string{"a", "b"}, "L", 1, 2, 1e-3)
	k2 := IntersectionKey([]string{"b", "a"}, "L", 1, 2, 1e-3)
	assert.Equal(t, k1, k2, "expected wall-id order independence")
}

func TestSweepEvictsExpiredEntries(t *testing.T) {
	s, err := NewStore(Options{TTL: time.Millisecond, EnableStatistics: true})
	require.NoError(t, err)
	defer s.Close()

	s.Set("k1", 1, 1)
	time.Sleep(5 * time.Millisecond)
	evicted := s.Sweep(0)
	assert.Equal(t, 1, evicted)

	_, ok := s.Get("k1")
	assert.False(t, ok, "expected expired entry to be gone")
}

func TestBackgroundSweeperEvictsExpiredEntries(t *testing.T) {
	s, err := NewStore(Options{TTL: time.Millisecond, CleanupInterval: 5 * time.Millisecond, EnableStatistics: true})
	require.NoError(t, err)
	defer s.Close()

	s.Set("k1", 1, 1)
	require.Eventually(t, func() bool {
		_, ok := s.Get("k1")
		return !ok
	}, 200*time.Millisecond, 5*time.Millisecond, "expected background sweeper to evict the expired entry")
}

func TestInvalidateRemovesLiveEntry(t *testing.T) {
	s, err := NewStore(Options{TTL: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	s.Set("k", "v", 1)
	s.Invalidate("k")

	_, ok := s.Get("k")
	assert.False(t, ok, "expected invalidated key to be gone")
}
