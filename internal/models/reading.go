package models

import "time"

// Reading is a single crowd-density observation for a gate
type Reading struct {
	ID         int64     `json:"id,omitempty" db:"id"`
	LocationID string    `json:"locationId" db:"location_id"`
	GateID     string    `json:"gateId" db:"gate_id"`
	Density    float64   `json:"density" db:"density"`
	Timestamp  time.Time `json:"timestamp" db:"recorded_at"` // stored as unix milliseconds
}

// GateKey identifies a gate within its location. Gate IDs are only unique per location.
type GateKey struct {
	LocationID string `json:"locationId"`
	GateID     string `json:"gateId"`
}

// ReadingFilter restricts a recent-readings query. Empty fields match everything.
type ReadingFilter struct {
	LocationID string
	GateIDs    []string
	Window     int // max readings kept per (location, gate), newest first
}

// IngestRequest is the body of POST /api/crowd-data
type IngestRequest struct {
	LocationID string   `json:"locationId"`
	GateID     string   `json:"gateId"`
	Density    *float64 `json:"density"`
	Timestamp  string   `json:"timestamp,omitempty"` // optional RFC3339, defaults to now
}

// HeatmapEntry is the latest reading of one gate, decorated for map rendering
type HeatmapEntry struct {
	LocationID string    `json:"locationId"`
	GateID     string    `json:"gateId"`
	GateName   string    `json:"gateName,omitempty"`
	Density    float64   `json:"density"`
	Timestamp  time.Time `json:"timestamp"`
	Color      string    `json:"color"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
}

// IngestResponse is returned by POST /api/crowd-data
type IngestResponse struct {
	Message string      `json:"message"`
	Reading Reading     `json:"reading"`
	Status  *RiskResult `json:"status,omitempty"` // tier of the gate after this reading
	Alerted bool        `json:"alerted"`
}
