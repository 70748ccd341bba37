// Package memory implements db.Store in process on top of the TTL cache.
package memory

import (
	"bytes"
	"context"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/geodex/internal/cache"
	"github.com/kailas-cloud/geodex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps byte values in a process-local TTL map.
type Store struct {
	entries *cache.TTL[[]byte]
	closed  atomic.Bool
}

// NewStore creates an empty in-process store. now overrides the clock when non-nil.
func NewStore(now func() time.Time) *Store {
	var opts []cache.Option[[]byte]
	if now != nil {
		opts = append(opts, cache.WithClock[[]byte](now))
	}
	return &Store{entries: cache.NewTTL(opts...)}
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	v, ok := s.entries.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

// SetWithTTL stores a copy of value.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpSet, Err: db.ErrClosed}
	}
	s.entries.Set(key, bytes.Clone(value), ttl)
	return nil
}

// Del removes key.
func (s *Store) Del(_ context.Context, key string) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	s.entries.Delete(key)
	return nil
}

// Ping fails only after Close.
func (s *Store) Ping(context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close drops all entries and rejects further calls.
func (s *Store) Close() {
	s.closed.Store(true)
	s.entries.Clear()
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}
