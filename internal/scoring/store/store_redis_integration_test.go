//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"scorum/internal/scoring/store"
	"scorum/pkg/platform/sentinel"
	"scorum/pkg/testutil/containers"
)

type RedisStorageSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	storage *store.RedisStorage
}

func TestRedisStorageSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStorageSuite))
}

func (s *RedisStorageSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.storage = store.NewRedis(s.redis.Client, store.WithRetry(3, 10*time.Millisecond))
}

func (s *RedisStorageSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStorageSuite) TestGetMissingKey() {
	_, err := s.storage.Get(context.Background(), "i:404")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStorageSuite) TestPutThenGet() {
	ctx := context.Background()
	s.Require().NoError(s.storage.Put(ctx, "i:1", `["books","travel"]`))

	val, err := s.storage.Get(ctx, "i:1")
	s.Require().NoError(err)
	s.Equal(`["books","travel"]`, val)
}

func (s *RedisStorageSuite) TestCacheRoundTrip() {
	ctx := context.Background()

	_, ok := s.storage.CacheGet(ctx, "uid:abc")
	s.False(ok)

	s.storage.CacheSet(ctx, "uid:abc", "3.5", time.Hour)
	val, ok := s.storage.CacheGet(ctx, "uid:abc")
	s.Require().True(ok)
	s.Equal("3.5", val)
}

func (s *RedisStorageSuite) TestCacheSetHonorsExpiry() {
	ctx := context.Background()
	s.storage.CacheSet(ctx, "uid:short", "1.5", time.Second)

	ttl, err := s.redis.Client.TTL(ctx, "uid:short").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Second)
}

func (s *RedisStorageSuite) TestUnreachableStoreIsUnavailable() {
	// A client pointed at a closed port exhausts its retries and reports
	// the store as unavailable; cache reads degrade to misses.
	dead := containers.NewRedisContainer(s.T())
	s.Require().NoError(dead.Container.Stop(context.Background(), nil))

	storage := store.NewRedis(dead.Client, store.WithRetry(2, 5*time.Millisecond))

	_, err := storage.Get(context.Background(), "i:1")
	s.ErrorIs(err, sentinel.ErrUnavailable)

	_, ok := storage.CacheGet(context.Background(), "uid:abc")
	s.False(ok)
}
