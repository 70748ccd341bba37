package overpass

import (
	"strconv"

	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// Element types as reported by the service.
const (
	TypeNode     = "node"
	TypeWay      = "way"
	TypeRelation = "relation"
)

// LatLon is a coordinate pair in service JSON.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Member is a relation member reference.
type Member struct {
	Type string `json:"type"`
	Ref  int64  `json:"ref"`
	Role string `json:"role"`
}

// Element is a raw node, way or relation.
type Element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      *float64          `json:"lat,omitempty"`
	Lon      *float64          `json:"lon,omitempty"`
	Center   *LatLon           `json:"center,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
	Members  []Member          `json:"members,omitempty"`
	Geometry []*LatLon         `json:"geometry,omitempty"`
	Nodes    []int64           `json:"nodes,omitempty"`
}

// Ref returns "<type>/<id>".
func (e *Element) Ref() string {
	return e.Type + "/" + strconv.FormatInt(e.ID, 10)
}

// Point returns the node position or the area center.
func (e *Element) Point() (geo.Point, bool) {
	var p geo.Point
	switch {
	case e.Lat != nil && e.Lon != nil:
		p = geo.Point{Lat: *e.Lat, Lng: *e.Lon}
	case e.Center != nil:
		p = geo.Point{Lat: e.Center.Lat, Lng: e.Center.Lon}
	default:
		return geo.Point{}, false
	}
	return p, p.Valid()
}

// Chain returns the way geometry, skipping missing vertices.
func (e *Element) Chain() []geo.Point {
	out := make([]geo.Point, 0, len(e.Geometry))
	for _, ll := range e.Geometry {
		if ll == nil {
			continue
		}
		out = append(out, geo.Point{Lat: ll.Lat, Lng: ll.Lon})
	}
	return out
}

// Response is the service JSON envelope.
type Response struct {
	Elements []Element `json:"elements"`
	Remark   string    `json:"remark,omitempty"`
}

// Ways indexes way elements by ID.
func (r *Response) Ways() map[int64]*Element {
	idx := make(map[int64]*Element)
	for i := range r.Elements {
		if r.Elements[i].Type == TypeWay {
			idx[r.Elements[i].ID] = &r.Elements[i]
		}
	}
	return idx
}

// RelationLines resolves a relation's way members in member order.
// Each way with more than one point becomes one polyline; missing ways are skipped.
func RelationLines(rel *Element, ways map[int64]*Element) [][]geo.Point {
	var lines [][]geo.Point
	for _, m := range rel.Members {
		if m.Type != TypeWay {
			continue
		}
		w, ok := ways[m.Ref]
		if !ok {
			continue
		}
		if chain := w.Chain(); len(chain) > 1 {
			lines = append(lines, chain)
		}
	}
	return lines
}
