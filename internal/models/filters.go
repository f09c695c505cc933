package models

// RiskSummaryFilter represents query parameters for GET /api/risk-summary
type RiskSummaryFilter struct {
	Mode string `form:"mode"` // officer, public (default)
}

// HeatmapFilter represents query parameters for GET /api/heatmap
type HeatmapFilter struct {
	LocationID string `form:"locationId"` // optional, all locations when empty
}

// LocationRequest is the body of POST /api/ai/location-risk
type LocationRequest struct {
	Location string `json:"location"` // location name, case-insensitive
	Mode     string `json:"mode,omitempty"`
}

// GateRequest is the body of POST /api/ai/gate-safety and /api/ai/predictive-risk
type GateRequest struct {
	Location string `json:"location"` // location name, case-insensitive
	Gate     string `json:"gate"`     // gate ID within the location
}

// QueryRequest is the body of POST /api/ai/custom-query
type QueryRequest struct {
	Query string `json:"query"`
}

// ParseMode maps a raw mode flag to a NarrativeMode. Anything but "officer" is public.
func ParseMode(raw string) NarrativeMode {
	if raw == string(ModeOfficer) {
		return ModeOfficer
	}
	return ModePublic
}
