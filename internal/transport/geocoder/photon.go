package geocoder

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// Photon is the search-as-you-type adapter (GeoJSON API).
type Photon struct {
	base
	countryCode string
	language    string
}

// NewPhoton creates a Photon adapter.
func NewPhoton(cfg Config) *Photon {
	return &Photon{
		base:        newBase(candidate.SourcePhoton, cfg),
		countryCode: strings.ToUpper(cfg.CountryCode),
		language:    cfg.Language,
	}
}

type photonResponse struct {
	Features []photonFeature `json:"features"`
}

type photonFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lng, lat]
	} `json:"geometry"`
	Properties photonProperties `json:"properties"`
}

type photonProperties struct {
	OSMID       int64  `json:"osm_id"`
	OSMKey      string `json:"osm_key"`
	OSMValue    string `json:"osm_value"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	HouseNumber string `json:"housenumber"`
	District    string `json:"district"`
	City        string `json:"city"`
	County      string `json:"county"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"countrycode"`
}

// Search implements the provider contract.
func (p *Photon) Search(ctx context.Context, query string, limit int) ([]candidate.Candidate, error) {
	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(limit)},
	}
	if p.language != "" {
		params["lang"] = []string{p.language}
	}

	var raw photonResponse
	if err := p.get(ctx, "/api", params, nil, &raw); err != nil {
		return nil, err
	}

	kept := make([]photonFeature, 0, len(raw.Features))
	for _, f := range raw.Features {
		if f.Properties.Name == "" {
			continue
		}
		if p.countryCode != "" && !strings.EqualFold(f.Properties.CountryCode, p.countryCode) {
			continue
		}
		kept = append(kept, f)
	}

	out := make([]candidate.Candidate, 0, len(kept))
	for i, f := range kept {
		out = append(out, p.toCandidate(f, positional(i, len(kept))))
	}
	p.observe(len(out))
	return out, nil
}

func (p *Photon) toCandidate(f photonFeature, relevance float64) candidate.Candidate {
	props := f.Properties

	var coords *geo.Point
	if len(f.Geometry.Coordinates) == 2 {
		pt := geo.Point{Lat: f.Geometry.Coordinates[1], Lng: f.Geometry.Coordinates[0]}
		if pt.Valid() {
			coords = &pt
		}
	}

	street := joinNonEmpty(" ", props.HouseNumber, props.Street)
	return candidate.New(candidate.Params{
		Name:        props.Name,
		FullName:    joinNonEmpty(", ", props.Name, street, props.District, props.City, props.State, props.Country),
		Type:        photonType(props),
		Coordinates: coords,
		Source:      candidate.SourcePhoton,
		Relevance:   relevance,
		Province:    firstNonEmpty(props.State, props.City),
		District:    firstNonEmpty(props.District, props.County),
	})
}

func photonType(props photonProperties) candidate.Type {
	switch props.OSMKey {
	case "amenity", "shop", "tourism", "leisure", "office", "healthcare", "historic", "craft":
		return candidate.POI
	}

	switch props.Type {
	case "house", "street":
		return candidate.Address
	case "city", "locality":
		return candidate.Locality
	case "district":
		if props.OSMValue == "suburb" || props.OSMValue == "quarter" || props.OSMValue == "neighbourhood" {
			return candidate.Neighborhood
		}
		return candidate.District
	case "county":
		return candidate.District
	case "state":
		return candidate.Province
	case "country":
		return candidate.Country
	}

	if props.OSMKey == "place" {
		switch props.OSMValue {
		case "city", "town", "village", "hamlet":
			return candidate.Locality
		case "suburb", "quarter", "neighbourhood":
			return candidate.Neighborhood
		}
	}
	return candidate.Place
}
