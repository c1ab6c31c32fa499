package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
	"github.com/careerforge/careerforge-api/internal/platform/logger"
	"github.com/careerforge/careerforge-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces cached artifacts.
const DefaultKeyPrefix = "careerforge:artifact:"

// TieredStore caches artifacts from a durable store.ArtifactStore in Redis
// until their NextRefreshAt. Writes go to the durable store first.
type TieredStore struct {
	durable store.ArtifactStore
	rdb     redis.Cmdable
	prefix  string
	logger  *slog.Logger
	now     func() time.Time
}

// NewTieredStore wraps durable with a Redis cache. If logger is nil, a
// default logger will be used.
func NewTieredStore(durable store.ArtifactStore, rdb redis.Cmdable, prefix string, logger *slog.Logger) *TieredStore {
	if durable == nil {
		panic("durable store cannot be nil")
	}
	if rdb == nil {
		panic("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TieredStore{
		durable: durable,
		rdb:     rdb,
		prefix:  prefix,
		logger:  logger.With(slog.String("component", "tiered_store")),
		now:     time.Now,
	}
}

var _ store.ArtifactStore = (*TieredStore)(nil)

func (s *TieredStore) cacheKey(key string) string {
	return s.prefix + key
}

// Find returns the cached artifact when present, otherwise reads the durable
// store and populates the cache.
func (s *TieredStore) Find(ctx context.Context, key string) (*domain.Artifact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	data, err := s.rdb.Get(ctx, s.cacheKey(key)).Bytes()
	switch {
	case err == nil:
		var a domain.Artifact
		if uerr := json.Unmarshal(data, &a); uerr == nil {
			return &a, nil
		}
		log.Warn("discarding undecodable cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		log.Warn("redis read failed, using durable store",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	a, err := s.durable.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	s.cache(ctx, a)
	return a, nil
}

// Upsert writes to the durable store, then refreshes the cache.
func (s *TieredStore) Upsert(ctx context.Context, artifact *domain.Artifact) error {
	if err := s.durable.Upsert(ctx, artifact); err != nil {
		return err
	}
	s.cache(ctx, artifact)
	return nil
}

// Delete removes the artifact from both tiers.
func (s *TieredStore) Delete(ctx context.Context, key string) error {
	if err := s.durable.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, s.cacheKey(key)).Err(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("redis evict failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return nil
}

// ListDue reads the durable store; due artifacts are never served from cache.
func (s *TieredStore) ListDue(
	ctx context.Context,
	kind string,
	before time.Time,
	limit int,
) ([]*domain.Artifact, error) {
	return s.durable.ListDue(ctx, kind, before, limit)
}

// cache stores a until its refresh time. Artifacts already due are not cached
// so they are always re-read from the durable store.
func (s *TieredStore) cache(ctx context.Context, a *domain.Artifact) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ttl := a.NextRefreshAt.Sub(s.now())
	if ttl <= 0 {
		if err := s.rdb.Del(ctx, s.cacheKey(a.Key)).Err(); err != nil {
			log.Warn("redis evict failed", slog.String("key", a.Key), slog.String("error", err.Error()))
		}
		return
	}

	data, err := json.Marshal(a)
	if err != nil {
		log.Warn("failed to encode artifact for cache", slog.String("key", a.Key), slog.String("error", err.Error()))
		return
	}

	if err := s.rdb.Set(ctx, s.cacheKey(a.Key), data, ttl).Err(); err != nil {
		log.Warn("redis write failed", slog.String("key", a.Key), slog.String("error", err.Error()))
	}
}
