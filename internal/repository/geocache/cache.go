// Package geocache is the typed JSON cache used by the location and amenity services.
package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/db"
)

// KeyPrefix namespaces every key written by geodex in a shared store.
const KeyPrefix = "geodex:"

// store is the consumer interface for the cache backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores values of type T as JSON. Backend failures are logged and
// reported as a miss (reads) or dropped (writes); they never reach callers.
type Cache[T any] struct {
	store      store
	prefix     string
	scope      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a typed cache for one scope (e.g. "amenities:category").
// cacheTotal is a counter vec with labels "scope" and "result", passed explicitly; nil disables counting.
func New[T any](
	s store,
	scope string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache[T] {
	return &Cache[T]{
		store:      s,
		prefix:     KeyPrefix,
		scope:      scope,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithPrefix replaces KeyPrefix for every key of this cache.
func (c *Cache[T]) WithPrefix(prefix string) *Cache[T] {
	c.prefix = prefix
	return c
}

// Get returns the cached value under key.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	full := c.prefix + key

	data, err := c.store.Get(ctx, full)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached value",
				zap.String("scope", c.scope), zap.String("key", full), zap.Error(err))
		}
		c.inc("miss")
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("Failed to decode cached value",
			zap.String("scope", c.scope), zap.String("key", full), zap.Error(err))
		c.inc("miss")
		return zero, false
	}

	c.inc("hit")
	return v, true
}

// Set writes v under key with the scope TTL.
func (c *Cache[T]) Set(ctx context.Context, key string, v T) {
	full := c.prefix + key

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache value",
			zap.String("scope", c.scope), zap.String("key", full), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, full, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache value",
			zap.String("scope", c.scope), zap.String("key", full), zap.Error(err))
	}
}

func (c *Cache[T]) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(c.scope, result).Inc()
	}
}
