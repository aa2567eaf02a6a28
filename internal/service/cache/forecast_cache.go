// Package cache holds the forecast result cache. Entries are write-once:
// the first completed computation for a (symbol, period, as-of date) wins and
// later attempts leave it untouched until the TTL expires.
package cache

import (
	"context"
	"errors"
	"time"

	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	pkgcache "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/cache"
)

// ForecastCache wraps a cache backend with forecast key semantics.
type ForecastCache struct {
	backend pkgcache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
}

// NewForecastCache creates a forecast cache. A nil backend disables caching.
func NewForecastCache(backend pkgcache.Service, ttl time.Duration, metrics domrepo.Metrics) *ForecastCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ForecastCache{backend: backend, ttl: ttl, metrics: metrics}
}

// Key builds the cache key for one forecast run.
func Key(symbol, period string, asOf time.Time) string {
	return pkgcache.GenerateKeyWithParams("forecast", symbol, period, asOf.UTC().Format("2006-01-02"))
}

// Get loads a cached result into dest. Returns false on miss.
func (c *ForecastCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.backend == nil {
		return false, nil
	}

	err := c.backend.Get(ctx, key, dest)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			c.record("miss")
			return false, nil
		}
		c.record("error")
		return false, err
	}
	c.record("hit")
	return true, nil
}

// PutOnce stores value under key unless a value is already present. A
// cancelled context never writes.
func (c *ForecastCache) PutOnce(ctx context.Context, key string, value interface{}) error {
	if c.backend == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.backend.SetNX(ctx, key, value, c.ttl)
	return err
}

func (c *ForecastCache) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(outcome)
	}
}
