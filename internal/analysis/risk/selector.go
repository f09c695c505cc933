package risk

import "github.com/jengzang/crowdscan-backend-go/internal/models"

// SafestGate returns the sample with the strictly lowest latest density.
// Ties keep the first sample encountered. ok is false for an empty input.
func SafestGate(samples []models.TrendSample) (best models.TrendSample, ok bool) {
	for i, s := range samples {
		if i == 0 || s.Latest < best.Latest {
			best = s
		}
	}
	return best, len(samples) > 0
}

// AlternateGate picks the safest gate other than gateID. No alternate is
// offered when the queried gate is itself Safe.
//
// The queried gate is never a candidate, so a Moderate gate that is already
// the least crowded is pointed at the next least crowded gate instead of
// at itself.
func AlternateGate(samples []models.TrendSample, gateID string, status models.RiskResult) (models.TrendSample, bool) {
	if status.Tag == models.TagSafe {
		return models.TrendSample{}, false
	}
	others := make([]models.TrendSample, 0, len(samples))
	for _, s := range samples {
		if s.GateID != gateID {
			others = append(others, s)
		}
	}
	return SafestGate(others)
}
