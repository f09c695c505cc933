package models

import "strings"

// LocationType classifies a monitored venue
type LocationType string

const (
	LocationTypeStadium LocationType = "stadium"
	LocationTypeMetro   LocationType = "metro"
	LocationTypeMall    LocationType = "mall"
)

// Coordinates is a WGS84 position
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// IsZero reports whether the coordinates were never set
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Gate is a monitored entry, exit or checkpoint of a location
type Gate struct {
	GateID      string      `json:"gateId" yaml:"gateId" db:"gate_id"`
	Name        string      `json:"name" yaml:"name" db:"name"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

// Location is a monitored venue and its ordered gates
type Location struct {
	LocationID   string       `json:"locationId" yaml:"locationId" db:"location_id"`
	LocationName string       `json:"locationName" yaml:"locationName" db:"location_name"`
	LocationType LocationType `json:"locationType" yaml:"locationType" db:"location_type"`
	Gates        []Gate       `json:"gates" yaml:"gates"`
	Center       *Coordinates `json:"center,omitempty" yaml:"-"` // mean gate position, filled by the directory service
}

// GateIDs returns the gate identifiers in directory order
func (l *Location) GateIDs() []string {
	ids := make([]string, 0, len(l.Gates))
	for _, g := range l.Gates {
		ids = append(ids, g.GateID)
	}
	return ids
}

// FindGate looks up a gate by ID. Matching is exact.
func (l *Location) FindGate(gateID string) (Gate, bool) {
	for _, g := range l.Gates {
		if g.GateID == gateID {
			return g, true
		}
	}
	return Gate{}, false
}

// MatchesName reports a case-insensitive exact match on the location name
func (l *Location) MatchesName(name string) bool {
	return strings.EqualFold(l.LocationName, strings.TrimSpace(name))
}
