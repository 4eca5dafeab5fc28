// Package store provides resilient access to the external key-value store.
//
// Two access tiers with different declared failure behavior:
//   - Get/Put are persistent operations: transient failures are retried with
//     exponential backoff, and exhausting the retry budget surfaces
//     sentinel.ErrUnavailable, which is fatal to the calling request.
//   - CacheGet/CacheSet are best-effort: any failure reads as a cache miss or
//     is swallowed. Caching is an optimization, never a correctness
//     dependency, so these never return errors.
package store

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Storage is the access contract to the backing key-value store.
type Storage interface {
	// Get performs a persistent read. Missing keys yield
	// sentinel.ErrNotFound; an unreachable store yields
	// sentinel.ErrUnavailable after the retry budget is spent.
	Get(ctx context.Context, key string) (string, error)

	// Put performs a persistent write, retried like Get. Used to seed data.
	Put(ctx context.Context, key, value string) error

	// CacheGet performs a best-effort read. The second return value is
	// false on a miss or on any failure; callers must treat both the same.
	CacheGet(ctx context.Context, key string) (string, bool)

	// CacheSet performs a best-effort write with an expiry. Failures are
	// logged and swallowed.
	CacheSet(ctx context.Context, key, value string, ttl time.Duration)
}

var (
	getDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scorum_store_get_duration_ms",
		Help:    "Latency of persistent store reads in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
	})
	getRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorum_store_get_retries_total",
		Help: "Total retry attempts on persistent store operations",
	})
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorum_store_cache_hits_total",
		Help: "Total cache reads that returned a value",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorum_store_cache_misses_total",
		Help: "Total cache reads that returned no value, failures included",
	})
)
