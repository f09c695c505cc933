// Package risk turns recent crowd-density readings into risk signals: a tier
// per gate, a trend, a one-step forecast, the safest alternative gate and the
// fleet-wide tier distribution. Everything here is deterministic; the only
// blocking call is the reading fetch in Extractor.
package risk

import "github.com/jengzang/crowdscan-backend-go/internal/models"

// Tier boundaries. Each band is inclusive on its lower bound.
const (
	ModerateThreshold      = 6.0
	HighThreshold          = 8.0
	CriticalThreshold      = 9.0
	StampedeTrendThreshold = 1.5
)

var (
	safe     = models.RiskResult{Tag: models.TagSafe, RiskLevel: 1, Color: "green"}
	moderate = models.RiskResult{Tag: models.TagModerate, RiskLevel: 2, Color: "yellow"}
	high     = models.RiskResult{Tag: models.TagHigh, RiskLevel: 3, Color: "orange"}
	critical = models.RiskResult{Tag: models.TagCritical, RiskLevel: 4, Color: "darkred"}
	stampede = models.RiskResult{Tag: models.TagStampede, RiskLevel: 5, Color: "red"}
)

// Classify maps a density and its trend to a risk tier. First match wins:
//
//	latest >= 9 and trend >= 1.5  Stampede Risk  5  red
//	latest >= 9                   Critical Risk  4  darkred
//	latest >= 8                   High Risk      3  orange
//	latest >= 6                   Moderate Risk  2  yellow
//	otherwise                     Safe           1  green
func Classify(latest, trend float64) models.RiskResult {
	switch {
	case latest >= CriticalThreshold && trend >= StampedeTrendThreshold:
		return stampede
	case latest >= CriticalThreshold:
		return critical
	case latest >= HighThreshold:
		return high
	case latest >= ModerateThreshold:
		return moderate
	default:
		return safe
	}
}

// ClassifySample classifies a trend sample on its latest density
func ClassifySample(s models.TrendSample) models.RiskResult {
	return Classify(s.Latest, s.Trend)
}

// GateRiskOf builds a summary row for a sample
func GateRiskOf(s models.TrendSample) models.GateRisk {
	r := ClassifySample(s)
	return models.GateRisk{
		GateID:    s.GateID,
		Latest:    s.Latest,
		Trend:     s.Trend,
		Tag:       r.Tag,
		RiskLevel: r.RiskLevel,
		Color:     r.Color,
	}
}
