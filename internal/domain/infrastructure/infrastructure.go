// Package infrastructure models transit features (stops, stations, routes) near a location.
package infrastructure

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// Layer is a requested infrastructure overlay.
type Layer string

// Supported layers.
const (
	BusStops      Layer = "bus_stop"
	MetroStations Layer = "metro_station"
	BusRoutes     Layer = "bus_route"
	MetroLines    Layer = "metro_line"
)

// Kind distinguishes point features from line features.
type Kind string

// Feature kinds.
const (
	KindPoint Kind = "point"
	KindLine  Kind = "line"
)

// AllLayers returns every supported layer in canonical order.
func AllLayers() []Layer {
	return []Layer{BusStops, MetroStations, BusRoutes, MetroLines}
}

// IsValid checks if the layer is one of the supported values.
func (l Layer) IsValid() bool {
	return slices.Contains(AllLayers(), l)
}

// Kind returns whether the layer yields points or lines.
func (l Layer) Kind() Kind {
	switch l {
	case BusRoutes, MetroLines:
		return KindLine
	default:
		return KindPoint
	}
}

// ParseLayers parses a list of layer names, dropping duplicates and sorting.
func ParseLayers(in []string) ([]Layer, error) {
	out := make([]Layer, 0, len(in))
	for _, s := range in {
		l := Layer(strings.ToLower(strings.TrimSpace(s)))
		if !l.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownLayer, s)
		}
		out = append(out, l)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// TagMatch requires Key to equal Value.
type TagMatch struct {
	Key   string
	Value string
}

// Selector is a conjunction of tag matches.
type Selector []TagMatch

// Selectors returns the alternatives that select a layer's elements.
// Point layers select nodes and ways; line layers select route relations.
func (l Layer) Selectors() []Selector {
	switch l {
	case BusStops:
		return []Selector{
			{{Key: "highway", Value: "bus_stop"}},
			{{Key: "public_transport", Value: "platform"}, {Key: "bus", Value: "yes"}},
		}
	case MetroStations:
		return []Selector{
			{{Key: "railway", Value: "station"}, {Key: "station", Value: "subway"}},
			{{Key: "public_transport", Value: "station"}, {Key: "subway", Value: "yes"}},
		}
	case BusRoutes:
		return []Selector{
			{{Key: "type", Value: "route"}, {Key: "route", Value: "bus"}},
		}
	case MetroLines:
		return []Selector{
			{{Key: "type", Value: "route"}, {Key: "route", Value: "subway"}},
			{{Key: "type", Value: "route"}, {Key: "route", Value: "light_rail"}},
		}
	default:
		return nil
	}
}

// Feature is either a point (Coordinates set) or a line (Lines set).
type Feature struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Kind        Kind              `json:"kind"`
	Coordinates *geo.Point        `json:"coordinates,omitempty"`
	Lines       [][]geo.Point     `json:"lines,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// NewPoint creates a point feature.
func NewPoint(id, name string, at geo.Point, tags map[string]string) Feature {
	return Feature{ID: id, Name: name, Kind: KindPoint, Coordinates: &at, Tags: tags}
}

// NewLine creates a line feature from ordered polylines.
func NewLine(id, name string, lines [][]geo.Point, tags map[string]string) Feature {
	return Feature{ID: id, Name: name, Kind: KindLine, Lines: lines, Tags: tags}
}
