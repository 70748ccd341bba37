// Package cache provides the in-process TTL store and the cache key scheme.
package cache

import (
	"sync"
	"time"
)

// Entry is a cached value with its write time and time-to-live.
type Entry[T any] struct {
	Value     T
	CreatedAt time.Time
	TTL       time.Duration
}

// Valid reports whether the entry is still fresh at now (inclusive bound).
func (e Entry[T]) Valid(now time.Time) bool {
	return now.Sub(e.CreatedAt) <= e.TTL
}

// TTL is a mutex-guarded map of entries with lazy eviction: an expired entry
// reads as a miss and is removed on that read. There is no background sweeper.
type TTL[T any] struct {
	mu      sync.Mutex
	entries map[string]Entry[T]
	now     func() time.Time
}

// Option configures a TTL cache.
type Option[T any] func(*TTL[T])

// WithClock overrides the time source (tests).
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *TTL[T]) { c.now = now }
}

// NewTTL creates an empty cache.
func NewTTL[T any](opts ...Option[T]) *TTL[T] {
	c := &TTL[T]{
		entries: make(map[string]Entry[T]),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the value for key if present and not expired.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if !e.Valid(c.now()) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.Value, true
}

// Set stores value under key. Overwrites replace both value and timestamp.
func (c *TTL[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry[T]{Value: value, CreatedAt: c.now(), TTL: ttl}
}

// Delete removes key.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len returns the number of stored entries, including expired ones not yet read.
func (c *TTL[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear drops every entry.
func (c *TTL[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}
