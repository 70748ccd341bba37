package overpass

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

const relationPayload = `{"elements": [
  {"type": "relation", "id": 9, "tags": {"name": "Tuyến 2A", "route": "subway"},
   "members": [
     {"type": "way", "ref": 2, "role": ""},
     {"type": "node", "ref": 100, "role": "stop"},
     {"type": "way", "ref": 1, "role": ""},
     {"type": "way", "ref": 3, "role": ""},
     {"type": "way", "ref": 404, "role": ""}
   ]},
  {"type": "way", "id": 1, "geometry": [{"lat": 21.0, "lon": 105.8}, {"lat": 21.1, "lon": 105.9}]},
  {"type": "way", "id": 2, "geometry": [{"lat": 20.9, "lon": 105.7}, null, {"lat": 21.0, "lon": 105.8}]},
  {"type": "way", "id": 3, "geometry": [{"lat": 22.0, "lon": 106.0}]},
  {"type": "node", "id": 100, "lat": 21.0, "lon": 105.8}
]}`

func TestRelationLines_MemberOrder(t *testing.T) {
	var resp Response
	if err := json.Unmarshal([]byte(relationPayload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rel := &resp.Elements[0]
	got := RelationLines(rel, resp.Ways())
	want := [][]geo.Point{
		{{Lat: 20.9, Lng: 105.7}, {Lat: 21.0, Lng: 105.8}},
		{{Lat: 21.0, Lng: 105.8}, {Lat: 21.1, Lng: 105.9}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestElement_Point(t *testing.T) {
	lat, lon := 10.0, 106.0
	node := Element{Type: TypeNode, ID: 1, Lat: &lat, Lon: &lon}
	if p, ok := node.Point(); !ok || p != (geo.Point{Lat: 10, Lng: 106}) {
		t.Errorf("node point = %v %v", p, ok)
	}

	way := Element{Type: TypeWay, ID: 2, Center: &LatLon{Lat: 10.1, Lon: 106.1}}
	if p, ok := way.Point(); !ok || p.Lat != 10.1 {
		t.Errorf("way center = %v %v", p, ok)
	}

	bare := Element{Type: TypeWay, ID: 3}
	if _, ok := bare.Point(); ok {
		t.Error("element without position should report false")
	}

	if way.Ref() != "way/2" {
		t.Errorf("ref = %s", way.Ref())
	}
}
