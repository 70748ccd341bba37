package overpass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/transport/outbound"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL + "/api/interpreter",
		Client:  outbound.NewClient(outbound.Config{Timeout: 2 * time.Second}),
	})
}

func TestQuery_PostsFormData(t *testing.T) {
	const ql = `[out:json][timeout:25];(node["shop"](around:100,10,106););out center;`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/interpreter" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("data"); got != ql {
			t.Errorf("data = %q", got)
		}
		_, _ = w.Write([]byte(`{"elements": [{"type": "node", "id": 7, "lat": 10, "lon": 106, "tags": {"shop": "mall"}}]}`))
	})

	resp, err := c.Query(context.Background(), KindAmenity, ql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Elements) != 1 || resp.Elements[0].Tags["shop"] != "mall" {
		t.Errorf("unexpected elements: %+v", resp.Elements)
	}
}

func TestQuery_Failures(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{"malformed", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
		{"runtime error remark", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"elements": [], "remark": "runtime error: Query timed out in \"query\" at line 3 after 26 seconds."}`))
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.h)
			_, err := c.Query(context.Background(), KindAmenity, "q")
			if !errors.Is(err, domain.ErrGeodataUnavailable) {
				t.Fatalf("expected ErrGeodataUnavailable, got %v", err)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	})
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
