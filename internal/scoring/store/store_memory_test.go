package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorum/pkg/platform/sentinel"
)

func TestMemoryStorage_GetPut(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Get(ctx, "i:1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, s.Put(ctx, "i:1", `["books"]`))
	val, err := s.Get(ctx, "i:1")
	require.NoError(t, err)
	assert.Equal(t, `["books"]`, val)
}

func TestMemoryStorage_InjectedGetFailures(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Put(ctx, "i:1", `["books"]`))

	s.FailGets(2)

	_, err := s.Get(ctx, "i:1")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	_, err = s.Get(ctx, "i:1")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	// Store recovers on the next call
	val, err := s.Get(ctx, "i:1")
	require.NoError(t, err)
	assert.Equal(t, `["books"]`, val)
	assert.Equal(t, 3, s.GetCalls())
}

func TestMemoryStorage_CacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, ok := s.CacheGet(ctx, "uid:abc")
	assert.False(t, ok)

	s.CacheSet(ctx, "uid:abc", "3.5", time.Hour)
	val, ok := s.CacheGet(ctx, "uid:abc")
	require.True(t, ok)
	assert.Equal(t, "3.5", val)
}

func TestMemoryStorage_CacheExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	current := time.Now()
	s.now = func() time.Time { return current }

	s.CacheSet(ctx, "uid:abc", "3.5", time.Minute)

	_, ok := s.CacheGet(ctx, "uid:abc")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = s.CacheGet(ctx, "uid:abc")
	assert.False(t, ok, "expired entries read as misses")
}

func TestMemoryStorage_CacheFailuresAreSilent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	s.FailCache(true)

	s.CacheSet(ctx, "uid:abc", "3.5", time.Hour)
	_, ok := s.CacheGet(ctx, "uid:abc")
	assert.False(t, ok)

	s.FailCache(false)
	_, ok = s.CacheGet(ctx, "uid:abc")
	assert.False(t, ok, "failed writes must not be stored")
	assert.Equal(t, 2, s.CacheGetCalls())
	assert.Equal(t, 1, s.CacheSetCalls())
}
