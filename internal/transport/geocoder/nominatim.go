package geocoder

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// Nominatim is the address/place geocoder adapter (jsonv2 search API).
type Nominatim struct {
	base
	countryCode string
	language    string
}

// NewNominatim creates a Nominatim adapter.
func NewNominatim(cfg Config) *Nominatim {
	return &Nominatim{
		base:        newBase(candidate.SourceNominatim, cfg),
		countryCode: cfg.CountryCode,
		language:    cfg.Language,
	}
}

type nominatimAddress struct {
	HouseNumber  string `json:"house_number"`
	Road         string `json:"road"`
	Suburb       string `json:"suburb"`
	Quarter      string `json:"quarter"`
	CityDistrict string `json:"city_district"`
	County       string `json:"county"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	State        string `json:"state"`
	Province     string `json:"province"`
	Country      string `json:"country"`
}

type nominatimPlace struct {
	PlaceID     int64            `json:"place_id"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Category    string           `json:"category"`
	Type        string           `json:"type"`
	AddressType string           `json:"addresstype"`
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Importance  float64          `json:"importance"`
	Address     nominatimAddress `json:"address"`
}

// Search implements the provider contract.
func (n *Nominatim) Search(ctx context.Context, query string, limit int) ([]candidate.Candidate, error) {
	params := url.Values{
		"q":              {query},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"limit":          {strconv.Itoa(limit)},
	}
	if n.countryCode != "" {
		params["countrycodes"] = []string{n.countryCode}
	}
	if n.language != "" {
		params["accept-language"] = []string{n.language}
	}

	var raw []nominatimPlace
	if err := n.get(ctx, "/search", params, nil, &raw); err != nil {
		return nil, err
	}

	out := make([]candidate.Candidate, 0, len(raw))
	for _, r := range raw {
		c, ok := n.toCandidate(r)
		if !ok {
			n.logger.Debug("Skipping malformed place", zap.Int64("place_id", r.PlaceID))
			continue
		}
		out = append(out, c)
	}
	n.observe(len(out))
	return out, nil
}

func (n *Nominatim) toCandidate(r nominatimPlace) (candidate.Candidate, bool) {
	name := firstNonEmpty(strings.TrimSpace(r.Name), firstSegment(r.DisplayName))
	if name == "" {
		return candidate.Candidate{}, false
	}

	var coords *geo.Point
	if p, err := parseLatLon(r.Lat, r.Lon); err == nil {
		coords = &p
	}

	return candidate.New(candidate.Params{
		Name:        name,
		FullName:    r.DisplayName,
		Type:        nominatimType(r.AddressType, r.Category),
		Coordinates: coords,
		Source:      candidate.SourceNominatim,
		Relevance:   r.Importance,
		Province:    firstNonEmpty(r.Address.State, r.Address.Province, r.Address.City),
		District:    firstNonEmpty(r.Address.CityDistrict, r.Address.County, r.Address.Suburb),
	}), true
}

func nominatimType(addressType, category string) candidate.Type {
	switch addressType {
	case "city", "town", "village", "hamlet", "municipality":
		return candidate.Locality
	case "suburb", "quarter", "neighbourhood", "city_block":
		return candidate.Neighborhood
	case "city_district", "county", "district", "borough":
		return candidate.District
	case "state", "province":
		return candidate.Province
	case "region":
		return candidate.Region
	case "road", "house", "house_number", "building":
		return candidate.Address
	case "postcode":
		return candidate.Postcode
	case "country":
		return candidate.Country
	}

	switch category {
	case "amenity", "shop", "tourism", "leisure", "office", "healthcare", "historic", "craft":
		return candidate.POI
	case "highway", "building":
		return candidate.Address
	}
	return candidate.Place
}

func firstSegment(displayName string) string {
	head, _, _ := strings.Cut(displayName, ",")
	return strings.TrimSpace(head)
}

func parseLatLon(lat, lon string) (geo.Point, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("parse lat: %w", err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("parse lon: %w", err)
	}
	p := geo.Point{Lat: la, Lng: lo}
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("coordinates out of range: %v,%v", la, lo)
	}
	return p, nil
}
