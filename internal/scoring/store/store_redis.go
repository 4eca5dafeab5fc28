package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"scorum/pkg/platform/circuit"
	"scorum/pkg/platform/sentinel"
)

// RedisStorage is the production Storage implementation. The wrapped
// go-redis client pools connections and is safe for concurrent use, so one
// RedisStorage serves all in-flight requests.
type RedisStorage struct {
	client   *redis.Client
	attempts int
	backoff  time.Duration
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// RedisOption configures a RedisStorage.
type RedisOption func(*RedisStorage)

// WithRetry sets the persistent-operation retry budget: total attempts and
// the base backoff, doubled after each failure.
func WithRetry(attempts int, backoff time.Duration) RedisOption {
	return func(s *RedisStorage) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if backoff > 0 {
			s.backoff = backoff
		}
	}
}

// WithLogger sets the logger used for swallowed cache failures.
func WithLogger(logger *slog.Logger) RedisOption {
	return func(s *RedisStorage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRedis constructs a RedisStorage over an established client.
func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStorage {
	s := &RedisStorage{
		client:   client,
		attempts: 3,
		backoff:  100 * time.Millisecond,
		breaker:  circuit.New("store-cache"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get reads a key, retrying transient failures. A missing key is reported
// immediately as sentinel.ErrNotFound and never retried.
func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	defer func() {
		getDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	var value string
	err := s.retry(ctx, func() error {
		val, err := s.client.Get(ctx, key).Result()
		if err != nil {
			return err
		}
		value = val
		return nil
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("get %q: %w", key, sentinel.ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// Put writes a key without expiry, retrying transient failures.
func (s *RedisStorage) Put(ctx context.Context, key, value string) error {
	return s.retry(ctx, func() error {
		return s.client.Set(ctx, key, value, 0).Err()
	})
}

// CacheGet reads a key best-effort. Failures count against the cache
// circuit breaker; an open circuit short-circuits to misses until the
// cooldown elapses.
func (s *RedisStorage) CacheGet(ctx context.Context, key string) (string, bool) {
	if !s.breaker.Allow() {
		cacheMissesTotal.Inc()
		return "", false
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.breaker.RecordSuccess()
		} else {
			s.breaker.RecordFailure()
			s.logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		}
		cacheMissesTotal.Inc()
		return "", false
	}
	s.breaker.RecordSuccess()
	cacheHitsTotal.Inc()
	return val, true
}

// CacheSet writes a key with an expiry, best-effort.
func (s *RedisStorage) CacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	if !s.breaker.Allow() {
		return
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.breaker.RecordFailure()
		s.logger.Warn("cache write failed, ignoring", "key", key, "error", err)
		return
	}
	s.breaker.RecordSuccess()
}

// retry runs op up to the configured attempt count, doubling the backoff
// between attempts. A redis.Nil result is a fact about the data, not an
// outage, and stops the loop immediately.
func (s *RedisStorage) retry(ctx context.Context, op func() error) error {
	backoff := s.backoff
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			getRetriesTotal.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		err := op()
		if err == nil || errors.Is(err, redis.Nil) {
			return err
		}
		lastErr = err
	}
	s.logger.Error("store unreachable after retries", "attempts", s.attempts, "error", lastErr)
	return fmt.Errorf("store failed after %d attempts: %w", s.attempts, sentinel.ErrUnavailable)
}
