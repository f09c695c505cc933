// Package geocode fills in gate coordinates from a street-address lookup.
package geocode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"googlemaps.github.io/maps"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// Geocoder resolves an address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// MapsGeocoder uses the Google Maps Geocoding API
type MapsGeocoder struct {
	client *maps.Client
}

// NewMapsGeocoder creates a Google Maps backed geocoder. Extra options
// are passed to maps.NewClient.
func NewMapsGeocoder(apiKey string, opts ...maps.ClientOption) (*MapsGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps API key is not set")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &MapsGeocoder{client: client}, nil
}

// Geocode returns the location of the first result
func (g *MapsGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return models.Coordinates{}, fmt.Errorf("no geocoding results for %q", address)
	}

	loc := results[0].Geometry.Location
	return models.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// GateAddress is the query used for a gate, e.g. "North Gate, Orion Mall"
func GateAddress(loc *models.Location, gate models.Gate) string {
	name := gate.Name
	if name == "" {
		name = "Gate " + gate.GateID
	}
	return name + ", " + loc.LocationName
}

// FillGates geocodes every gate of loc that has no coordinates. Gates that
// fail to resolve keep zero coordinates. It returns the number filled.
func FillGates(ctx context.Context, g Geocoder, loc *models.Location) int {
	filled := 0
	for i := range loc.Gates {
		gate := &loc.Gates[i]
		if !gate.Coordinates.IsZero() {
			continue
		}

		coords, err := g.Geocode(ctx, GateAddress(loc, *gate))
		if err != nil {
			log.Warn().Err(err).
				Str("location_id", loc.LocationID).
				Str("gate_id", gate.GateID).
				Msg("Failed to geocode gate")
			continue
		}
		gate.Coordinates = coords
		filled++
	}
	return filled
}
