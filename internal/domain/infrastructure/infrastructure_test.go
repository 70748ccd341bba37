package infrastructure

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

func TestParseLayers(t *testing.T) {
	got, err := ParseLayers([]string{"metro_line", "BUS_STOP", "metro_line"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != BusStops || got[1] != MetroLines {
		t.Errorf("unexpected layers: %v", got)
	}

	_, err = ParseLayers([]string{"ferry"})
	if !errors.Is(err, domain.ErrUnknownLayer) {
		t.Errorf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestLayerKind(t *testing.T) {
	for _, l := range AllLayers() {
		want := KindPoint
		if l == BusRoutes || l == MetroLines {
			want = KindLine
		}
		if l.Kind() != want {
			t.Errorf("%s: kind %s, want %s", l, l.Kind(), want)
		}
	}
}

func TestNewPointAndLine(t *testing.T) {
	p := NewPoint("node/1", "Bến xe Miền Đông", geo.Point{Lat: 10.81, Lng: 106.71}, nil)
	if p.Kind != KindPoint || p.Coordinates == nil || p.Lines != nil {
		t.Errorf("unexpected point feature: %+v", p)
	}

	l := NewLine("relation/2", "Tuyến 1", [][]geo.Point{{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}}, nil)
	if l.Kind != KindLine || l.Coordinates != nil || len(l.Lines) != 1 {
		t.Errorf("unexpected line feature: %+v", l)
	}
}

func TestSelectors_EveryLayerHandled(t *testing.T) {
	for _, l := range AllLayers() {
		sels := l.Selectors()
		if len(sels) == 0 {
			t.Errorf("layer %s has no selectors", l)
		}
		for _, s := range sels {
			if len(s) == 0 {
				t.Errorf("layer %s has an empty selector", l)
			}
		}
	}
}
