package models

// RiskTag is the human-readable risk tier
type RiskTag string

const (
	TagSafe     RiskTag = "Safe"
	TagModerate RiskTag = "Moderate Risk"
	TagHigh     RiskTag = "High Risk"
	TagCritical RiskTag = "Critical Risk"
	TagStampede RiskTag = "Stampede Risk"
)

// RiskResult is the classification of a (latest, trend) pair
type RiskResult struct {
	Tag       RiskTag `json:"tag"`
	RiskLevel int     `json:"riskLevel"` // 1 (Safe) .. 5 (Stampede)
	Color     string  `json:"color"`
}

// TrendSample is the per-gate reduction of the most recent readings.
// It is derived on every request and never persisted.
type TrendSample struct {
	LocationID string  `json:"locationId"`
	GateID     string  `json:"gateId"`
	Latest     float64 `json:"latest"`
	Previous   float64 `json:"previous"`
	Trend      float64 `json:"trend"`
}

// GateRisk is one row of a risk summary
type GateRisk struct {
	GateID    string  `json:"gateId"`
	Latest    float64 `json:"latest"`
	Trend     float64 `json:"trend"`
	Tag       RiskTag `json:"tag"`
	RiskLevel int     `json:"riskLevel"`
	Color     string  `json:"color"`
}

// LocationRisk groups gate risks under their location
type LocationRisk struct {
	LocationID   string     `json:"locationId"`
	LocationName string     `json:"locationName,omitempty"`
	Gates        []GateRisk `json:"gates"`
}

// NarrativeMode selects the tone requested from the narrative generator
type NarrativeMode string

const (
	ModePublic  NarrativeMode = "public"
	ModeOfficer NarrativeMode = "officer"
)

// RiskSummaryResponse is returned by the fleet and single-location summaries
type RiskSummaryResponse struct {
	Mode           NarrativeMode  `json:"mode"`
	Locations      []LocationRisk `json:"locations"`
	Context        string         `json:"context"`
	Summary        string         `json:"summary,omitempty"`
	NarrativeError string         `json:"narrativeError,omitempty"`
}

// RiskCounts is the per-tier count over all monitored gates
type RiskCounts struct {
	Total    int `json:"total"`
	Safe     int `json:"safe"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
	Stampede int `json:"stampede"`
}

// RiskDistribution holds each tier's share of the total, formatted like "25.0%"
type RiskDistribution struct {
	Safe     string `json:"safe"`
	Moderate string `json:"moderate"`
	High     string `json:"high"`
	Critical string `json:"critical"`
	Stampede string `json:"stampede"`
}

// RiskStatsResponse is returned by GET /api/risk-stats
type RiskStatsResponse struct {
	Summary          RiskCounts       `json:"summary"`
	RiskDistribution RiskDistribution `json:"riskDistribution"`
}

// GateAdvisoryResponse answers "is my gate safe, and if not where should I go"
type GateAdvisoryResponse struct {
	LocationID               string   `json:"locationId"`
	GateID                   string   `json:"gateId"`
	Status                   RiskTag  `json:"status"`
	RiskLevel                int      `json:"riskLevel"`
	Color                    string   `json:"color"`
	SafestGate               *string  `json:"safestGate"`
	SafestGateDistanceMeters *float64 `json:"safestGateDistanceMeters,omitempty"`
	SafestGateDirection      string   `json:"safestGateDirection,omitempty"`
	Summary                  string   `json:"summary,omitempty"`
	NarrativeError           string   `json:"narrativeError,omitempty"`
}

// ForecastResponse is the predictive advisory for a single gate
type ForecastResponse struct {
	LocationID      string  `json:"locationId"`
	GateID          string  `json:"gateId"`
	Latest          float64 `json:"latest"`
	Previous        float64 `json:"previous"`
	Trend           float64 `json:"trend"`
	Forecast        float64 `json:"forecast"`
	Status          RiskTag `json:"status"`
	RiskLevel       int     `json:"riskLevel"`
	Color           string  `json:"color"`
	ForecastSummary string  `json:"forecastSummary"`
	Summary         string  `json:"summary,omitempty"`
	NarrativeError  string  `json:"narrativeError,omitempty"`
}

// QueryResponse is the answer to a free-form question
type QueryResponse struct {
	Summary string `json:"summary"`
}

// Alert is published when an ingested reading pushes a gate into a severe tier
type Alert struct {
	LocationID string  `json:"locationId"`
	GateID     string  `json:"gateId"`
	Latest     float64 `json:"latest"`
	Trend      float64 `json:"trend"`
	Tag        RiskTag `json:"tag"`
	RiskLevel  int     `json:"riskLevel"`
	Color      string  `json:"color"`
	RaisedAt   int64   `json:"raisedAt"` // unix milliseconds
}
