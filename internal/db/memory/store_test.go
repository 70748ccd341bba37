package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/geodex/internal/db"
)

func TestStore_SetGet(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("got %q", got)
	}
}

func TestStore_ValuesAreCopied(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	in := []byte("abc")
	_ = s.SetWithTTL(ctx, "k", in, time.Minute)
	in[0] = 'x'

	out, _ := s.Get(ctx, "k")
	if string(out) != "abc" {
		t.Fatalf("stored value mutated through caller slice: %q", out)
	}
	out[1] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}
}

func TestStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(func() time.Time { return now })
	ctx := context.Background()

	_ = s.SetWithTTL(ctx, "k", []byte("v"), 10*time.Minute)
	now = now.Add(11 * time.Minute)

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestStore_Del(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	_ = s.SetWithTTL(ctx, "k", []byte("v"), time.Minute)
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestStore_Closed(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	s.Close()

	if err := s.Ping(ctx); !errors.Is(err, db.ErrClosed) {
		t.Errorf("ping after close: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrClosed) {
		t.Errorf("get after close: %v", err)
	}
	if err := s.SetWithTTL(ctx, "k", nil, time.Minute); !errors.Is(err, db.ErrClosed) {
		t.Errorf("set after close: %v", err)
	}
}
