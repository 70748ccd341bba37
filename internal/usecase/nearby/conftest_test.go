package nearby

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/db/memory"
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	"github.com/kailas-cloud/geodex/internal/repository/geocache"
	"github.com/kailas-cloud/geodex/internal/transport/overpass"
)

// mockGeodata answers queries with respond and records every QL string.
type mockGeodata struct {
	respond func(ql string) (*overpass.Response, error)

	mu          sync.Mutex
	queries     []string
	inFlight    int
	maxInFlight int
}

func (m *mockGeodata) Query(_ context.Context, _ string, ql string) (*overpass.Response, error) {
	m.mu.Lock()
	m.queries = append(m.queries, ql)
	m.inFlight++
	m.maxInFlight = max(m.maxInFlight, m.inFlight)
	m.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()

	if m.respond == nil {
		return &overpass.Response{}, nil
	}
	return m.respond(ql)
}

func (m *mockGeodata) count(substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.queries {
		if strings.Contains(q, substr) {
			n++
		}
	}
	return n
}

func (m *mockGeodata) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, gd Geodata, cfg Config) (*Service, *testClock) {
	t.Helper()
	clk := &testClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	store := memory.NewStore(clk.Now)
	t.Cleanup(store.Close)

	log := zap.NewNop()
	caches := Caches{
		Amenities:      geocache.New[[]amenity.Amenity](store, ScopeAmenities, 10*time.Minute, nil, log),
		Category:       geocache.New[[]amenity.Amenity](store, ScopeAmenity, 10*time.Minute, nil, log),
		Infrastructure: geocache.New[map[infrastructure.Layer][]infrastructure.Feature](store, ScopeInfra, 30*time.Minute, nil, log),
		Layer:          geocache.New[[]infrastructure.Feature](store, ScopeInfraLayer, 30*time.Minute, nil, log),
	}
	return New(gd, caches, cfg, log), clk
}

func node(id int64, lat, lon float64, tags map[string]string) overpass.Element {
	return overpass.Element{Type: overpass.TypeNode, ID: id, Lat: &lat, Lon: &lon, Tags: tags}
}

// Substrings identifying each category's query.
const (
	educationQL  = `"^(school|college|university|kindergarten|library)$"`
	healthcareQL = `"^(hospital|clinic|doctors|dentist|pharmacy)$"`
	shoppingQL   = `node["shop"]`
)
