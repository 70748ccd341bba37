// Package candidate defines the normalized search result produced by geocoding providers.
package candidate

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// Type classifies what kind of place a candidate is.
type Type string

// Candidate type constants.
const (
	Address      Type = "address"
	POI          Type = "poi"
	Locality     Type = "locality"
	Neighborhood Type = "neighborhood"
	Place        Type = "place"
	District     Type = "district"
	Province     Type = "province"
	Region       Type = "region"
	Postcode     Type = "postcode"
	Country      Type = "country"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case Address, POI, Locality, Neighborhood, Place,
		District, Province, Region, Postcode, Country:
		return true
	}
	return false
}

// Priority orders types for ranking; lower is better.
// Administrative units share the lowest priority.
func (t Type) Priority() int {
	switch t {
	case POI:
		return 0
	case Locality:
		return 1
	case Address:
		return 2
	case Place, Neighborhood:
		return 3
	default:
		return 4
	}
}

// Source names the provider that produced a candidate.
type Source string

// Provider sources in fan-out priority order.
const (
	SourceNominatim  Source = "nominatim"
	SourcePhoton     Source = "photon"
	SourceFoursquare Source = "foursquare"
)

// Params carries the fields used to build a Candidate.
type Params struct {
	Name        string
	FullName    string
	Type        Type
	Coordinates *geo.Point
	Source      Source
	Relevance   float64
	Province    string
	District    string
}

// Candidate is a single normalized search result. Immutable after New.
type Candidate struct {
	name        string
	fullName    string
	typ         Type
	coordinates *geo.Point
	source      Source
	relevance   float64
	province    string
	district    string
}

// New creates a candidate. Relevance is clamped to [0,1]; an unknown type becomes Place.
func New(p Params) Candidate {
	rel := p.Relevance
	if rel < 0 {
		rel = 0
	}
	if rel > 1 {
		rel = 1
	}
	typ := p.Type
	if !typ.IsValid() {
		typ = Place
	}
	var coords *geo.Point
	if p.Coordinates != nil {
		c := *p.Coordinates
		coords = &c
	}
	fullName := p.FullName
	if fullName == "" {
		fullName = p.Name
	}
	return Candidate{
		name:        strings.TrimSpace(p.Name),
		fullName:    fullName,
		typ:         typ,
		coordinates: coords,
		source:      p.Source,
		relevance:   rel,
		province:    p.Province,
		district:    p.District,
	}
}

// Name returns the short display name.
func (c *Candidate) Name() string { return c.name }

// FullName returns the human-readable full label.
func (c *Candidate) FullName() string { return c.fullName }

// Type returns the place type.
func (c *Candidate) Type() Type { return c.typ }

// Coordinates returns a copy of the location, if known.
func (c *Candidate) Coordinates() (geo.Point, bool) {
	if c.coordinates == nil {
		return geo.Point{}, false
	}
	return *c.coordinates, true
}

// Source returns the producing provider.
func (c *Candidate) Source() Source { return c.source }

// Relevance returns the provider-native score in [0,1].
func (c *Candidate) Relevance() float64 { return c.relevance }

// Province returns the administrative province, if known.
func (c *Candidate) Province() string { return c.province }

// District returns the administrative district, if known.
func (c *Candidate) District() string { return c.district }

// DedupKey is lowercase(NFC(name)) + "-" + type. Same-named entities of different
// types don't collide; composed and decomposed spellings of one name do.
func (c *Candidate) DedupKey() string {
	return strings.ToLower(norm.NFC.String(c.name)) + "-" + string(c.typ)
}

type candidateJSON struct {
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Type        Type       `json:"type"`
	Coordinates *geo.Point `json:"coordinates,omitempty"`
	Source      Source     `json:"source"`
	Relevance   float64    `json:"relevance"`
	Province    string     `json:"province,omitempty"`
	District    string     `json:"district,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(candidateJSON{
		Name:        c.name,
		FullName:    c.fullName,
		Type:        c.typ,
		Coordinates: c.coordinates,
		Source:      c.source,
		Relevance:   c.relevance,
		Province:    c.province,
		District:    c.district,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Decoded values go through New.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var raw candidateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err //nolint:wrapcheck // decoder error carries position
	}
	*c = New(Params(raw))
	return nil
}
