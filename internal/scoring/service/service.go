// Package service computes scores and interests lookups on top of the store.
package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"scorum/internal/scoring/models"
	"scorum/internal/scoring/store"
	"scorum/pkg/platform/sentinel"
)

// Score weights per supplied field or pair.
const (
	weightPhone    = 1.5
	weightEmail    = 1.5
	weightBirthGen = 1.5
	weightFullName = 0.5
)

// Service answers the two domain questions: a profile-completeness score and
// per-client interests.
type Service struct {
	storage    store.Storage
	cacheTTL   time.Duration
	fetchLimit int
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCacheTTL sets the expiry for cached scores.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithFetchLimit bounds the number of concurrent interests reads per request.
func WithFetchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchLimit = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service over the given storage.
func New(storage store.Storage, opts ...Option) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	s := &Service{
		storage:    storage,
		cacheTTL:   time.Hour,
		fetchLimit: 8,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Score returns the profile-completeness score for the request. A healthy
// cache short-circuits the computation; cache failures on either side never
// surface to the caller.
func (s *Service) Score(ctx context.Context, req *models.OnlineScoreRequest) float64 {
	key := scoreKey(req)
	if raw, ok := s.storage.CacheGet(ctx, key); ok {
		if cached, err := strconv.ParseFloat(raw, 64); err == nil {
			return cached
		}
		s.logger.Warn("discarding malformed cached score", "key", key, "value", raw)
	}

	score := computeScore(req)
	s.storage.CacheSet(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), s.cacheTTL)
	return score
}

func computeScore(req *models.OnlineScoreRequest) float64 {
	var score float64
	if req.Has("phone") {
		score += weightPhone
	}
	if req.Has("email") {
		score += weightEmail
	}
	if req.Has("birthday") && req.Has("gender") {
		score += weightBirthGen
	}
	if req.Has("first_name") && req.Has("last_name") {
		score += weightFullName
	}
	return score
}

// scoreKey derives a deterministic cache key from the identity-bearing
// fields of the request.
func scoreKey(req *models.OnlineScoreRequest) string {
	var birthday string
	if !req.Birthday.IsZero() {
		birthday = req.Birthday.Format("20060102")
	}
	sum := md5.Sum([]byte(req.FirstName + req.LastName + req.Phone + birthday))
	return "uid:" + hex.EncodeToString(sum[:])
}

// Interests fetches the interests list for every client id. Reads run
// concurrently with a bounded limit; any persistent-read failure aborts the
// whole call. A missing key reads as an empty list.
func (s *Service) Interests(ctx context.Context, ids []int64) (map[string][]string, error) {
	results := make([][]string, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			raw, err := s.storage.Get(gctx, interestsKey(id))
			if errors.Is(err, sentinel.ErrNotFound) {
				results[i] = []string{}
				return nil
			}
			if err != nil {
				return err
			}
			var interests []string
			if err := json.Unmarshal([]byte(raw), &interests); err != nil {
				return fmt.Errorf("decode interests for client %d: %w", id, err)
			}
			results[i] = interests
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(ids))
	for i, id := range ids {
		out[strconv.FormatInt(id, 10)] = results[i]
	}
	return out, nil
}

func interestsKey(id int64) string {
	return "i:" + strconv.FormatInt(id, 10)
}
