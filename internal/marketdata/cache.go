package marketdata

import (
	"context"
	"time"

	"github.com/coinscan/backend/internal/scoring"
	"github.com/coinscan/backend/pkg/logger"
	"github.com/coinscan/backend/pkg/redis"
)

// CachedProvider decorates a Provider with Redis-backed caching. Cache
// failures are logged and fall through to the underlying provider, never
// surfaced to callers.
type CachedProvider struct {
	inner  Provider
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedProvider wraps a provider with a cache layer.
func NewCachedProvider(inner Provider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// Metrics returns cached metrics when fresh, otherwise delegates and caches.
func (p *CachedProvider) Metrics(ctx context.Context, symbol string) (scoring.Metrics, error) {
	key := redis.MetricsKey(symbol)

	var cached scoring.Metrics
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Warn("Metrics cache read failed")
	}
	if found {
		return cached, nil
	}

	m, err := p.inner.Metrics(ctx, symbol)
	if err != nil {
		return scoring.Metrics{}, err
	}

	if err := p.cache.Set(ctx, key, m, p.ttl); err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Warn("Metrics cache write failed")
	}

	return m, nil
}

// Overview returns the cached market snapshot when fresh.
func (p *CachedProvider) Overview(ctx context.Context) (Overview, error) {
	key := redis.OverviewKey()

	var cached Overview
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).Warn("Overview cache read failed")
	}
	if found {
		return cached, nil
	}

	ov, err := p.inner.Overview(ctx)
	if err != nil {
		return Overview{}, err
	}

	if err := p.cache.Set(ctx, key, ov, p.ttl); err != nil {
		p.logger.WithError(err).Warn("Overview cache write failed")
	}

	return ov, nil
}

// TopMovers delegates directly; the leaderboard is cheap to produce and
// ordering-sensitive, so it is not cached.
func (p *CachedProvider) TopMovers(ctx context.Context, direction Direction, limit int) ([]Mover, error) {
	return p.inner.TopMovers(ctx, direction, limit)
}
