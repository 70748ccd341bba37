package geocoder

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// Foursquare is the POI adapter (Places API v3).
type Foursquare struct {
	base
	apiKey   string
	near     string
	language string
}

// NewFoursquare creates a Foursquare adapter.
func NewFoursquare(cfg Config) *Foursquare {
	return &Foursquare{
		base:   newBase(candidate.SourceFoursquare, cfg),
		apiKey:   cfg.APIKey,
		near:     cfg.Near,
		language: cfg.Language,
	}
}

type foursquareResponse struct {
	Results []foursquarePlace `json:"results"`
}

type foursquarePlace struct {
	FSQID    string `json:"fsq_id"`
	Name     string `json:"name"`
	Geocodes struct {
		Main *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Location struct {
		FormattedAddress string `json:"formatted_address"`
		Locality         string `json:"locality"`
		Region           string `json:"region"`
	} `json:"location"`
}

// Search implements the provider contract.
func (f *Foursquare) Search(ctx context.Context, query string, limit int) ([]candidate.Candidate, error) {
	params := url.Values{
		"query": {query},
		"limit": {strconv.Itoa(limit)},
	}
	if f.near != "" {
		params["near"] = []string{f.near}
	}
	header := http.Header{}
	if f.apiKey != "" {
		header.Set("Authorization", f.apiKey)
	}
	if f.language != "" {
		header.Set("Accept-Language", f.language)
	}

	var raw foursquareResponse
	if err := f.get(ctx, "/v3/places/search", params, header, &raw); err != nil {
		return nil, err
	}

	kept := make([]foursquarePlace, 0, len(raw.Results))
	for _, r := range raw.Results {
		if r.Name != "" {
			kept = append(kept, r)
		}
	}

	out := make([]candidate.Candidate, 0, len(kept))
	for i, r := range kept {
		var coords *geo.Point
		if m := r.Geocodes.Main; m != nil {
			pt := geo.Point{Lat: m.Latitude, Lng: m.Longitude}
			if pt.Valid() {
				coords = &pt
			}
		}
		out = append(out, candidate.New(candidate.Params{
			Name:        r.Name,
			FullName:    r.Location.FormattedAddress,
			Type:        candidate.POI,
			Coordinates: coords,
			Source:      candidate.SourceFoursquare,
			Relevance:   positional(i, len(kept)),
			Province:    r.Location.Region,
			District:    r.Location.Locality,
		}))
	}
	f.observe(len(out))
	return out, nil
}
