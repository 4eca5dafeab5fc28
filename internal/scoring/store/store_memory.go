package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scorum/pkg/platform/sentinel"
)

// MemoryStorage is an in-process Storage implementation used by tests and
// local development. It honors cache expiries and can simulate outages.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time

	failGets  int
	failCache bool

	getCalls      int
	cacheGetCalls int
	cacheSetCalls int
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemory returns an empty MemoryStorage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the stored value or sentinel.ErrNotFound. When failures are
// injected via FailGets it returns sentinel.ErrUnavailable instead, matching
// a store whose retry budget is exhausted.
func (s *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.failGets > 0 {
		s.failGets--
		return "", fmt.Errorf("get %q: %w", key, sentinel.ErrUnavailable)
	}
	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		return "", fmt.Errorf("get %q: %w", key, sentinel.ErrNotFound)
	}
	return entry.value, nil
}

// Put stores a value without expiry.
func (s *MemoryStorage) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value}
	return nil
}

// CacheGet returns the stored value unless it is absent, expired, or cache
// failures are injected.
func (s *MemoryStorage) CacheGet(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheGetCalls++
	if s.failCache {
		return "", false
	}
	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		return "", false
	}
	return entry.value, true
}

// CacheSet stores a value with an expiry. Injected cache failures drop the
// write silently, as the contract requires.
func (s *MemoryStorage) CacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheSetCalls++
	if s.failCache {
		return
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
}

func (s *MemoryStorage) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)
}

// FailGets makes the next n persistent reads fail as unavailable.
func (s *MemoryStorage) FailGets(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGets = n
}

// FailCache toggles failure of all cache operations.
func (s *MemoryStorage) FailCache(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCache = fail
}

// GetCalls reports how many persistent reads were attempted.
func (s *MemoryStorage) GetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls
}

// CacheGetCalls reports how many cache reads were attempted.
func (s *MemoryStorage) CacheGetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cacheGetCalls
}

// CacheSetCalls reports how many cache writes were attempted.
func (s *MemoryStorage) CacheSetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cacheSetCalls
}
