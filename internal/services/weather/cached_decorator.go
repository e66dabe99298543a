package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shakeeb2001/Weather-App/internal/models"
)

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T, expiration time.Duration) error
	Get(ctx context.Context, key string, returnValue *T) error
}

// CachedClient reuses a recent snapshot for the same location instead of
// hitting the provider again. A cache error never fails the fetch.
type CachedClient struct {
	inner    fetcher
	cache    cacheClient[models.Snapshot]
	logger   *log.Logger
	liveTime time.Duration
}

func NewCachedClient(
	inner fetcher,
	cache cacheClient[models.Snapshot],
	logger *log.Logger,
	liveTime time.Duration,
) *CachedClient {
	return &CachedClient{inner: inner, cache: cache, logger: logger, liveTime: liveTime}
}

func (s *CachedClient) Fetch(ctx context.Context, location string) (models.Snapshot, error) {
	key := fmt.Sprintf("weather:%s", location)
	var snap models.Snapshot

	if err := s.cache.Get(ctx, key, &snap); err == nil {
		s.logger.Printf("Cache hit for location %s", location)
		return snap, nil
	}

	s.logger.Printf("Cache miss for location %s", location)
	snap, err := s.inner.Fetch(ctx, location)
	if err != nil {
		return models.Snapshot{}, err
	}

	if err := s.cache.Set(ctx, key, snap, s.liveTime); err != nil {
		s.logger.Printf("Cache error for location %s: %v", location, err)
	}

	return snap, nil
}
