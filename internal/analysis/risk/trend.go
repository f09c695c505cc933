package risk

import (
	"context"
	"sort"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// DefaultWindow is the number of most recent readings kept per gate
const DefaultWindow = 3

// ReadingSource returns recent readings, newest first, capped at filter.Window per gate
type ReadingSource interface {
	QueryRecent(ctx context.Context, filter models.ReadingFilter) ([]models.Reading, error)
}

// Extractor pulls recent readings and reduces them to trend samples
type Extractor struct {
	source ReadingSource
	window int
}

// NewExtractor creates an extractor. A window below 1 falls back to DefaultWindow.
func NewExtractor(source ReadingSource, window int) *Extractor {
	if window < 1 {
		window = DefaultWindow
	}
	return &Extractor{source: source, window: window}
}

// Window returns the configured window size
func (e *Extractor) Window() int {
	return e.window
}

// Extract returns one sample per (location, gate) pair that has readings.
// A filter matching no readings yields an empty slice, not an error.
func (e *Extractor) Extract(ctx context.Context, locationID string, gateIDs []string) ([]models.TrendSample, error) {
	readings, err := e.source.QueryRecent(ctx, models.ReadingFilter{
		LocationID: locationID,
		GateIDs:    gateIDs,
		Window:     e.window,
	})
	if err != nil {
		return nil, err
	}
	return Reduce(readings, e.window), nil
}

// Reduce groups readings by (location, gate) in first-seen order and reduces
// each group to a TrendSample. Within a group readings are ordered newest
// first and only the first window entries are considered.
func Reduce(readings []models.Reading, window int) []models.TrendSample {
	if window < 1 {
		window = DefaultWindow
	}

	var order []models.GateKey
	groups := make(map[models.GateKey][]models.Reading)
	for _, r := range readings {
		key := models.GateKey{LocationID: r.LocationID, GateID: r.GateID}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	samples := make([]models.TrendSample, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp.After(group[j].Timestamp)
		})
		if len(group) > window {
			group = group[:window]
		}

		densities := make([]float64, len(group))
		for i, r := range group {
			densities[i] = r.Density
		}
		latest, previous, trend := ReduceDensities(densities)

		samples = append(samples, models.TrendSample{
			LocationID: key.LocationID,
			GateID:     key.GateID,
			Latest:     latest,
			Previous:   previous,
			Trend:      trend,
		})
	}
	return samples
}

// ReduceDensities reduces newest-first densities to (latest, previous, trend).
// With a single reading previous equals latest and the trend is exactly 0.
func ReduceDensities(densities []float64) (latest, previous, trend float64) {
	if len(densities) == 0 {
		return 0, 0, 0
	}
	latest = densities[0]
	previous = latest
	if len(densities) > 1 {
		previous = densities[1]
	}
	return latest, previous, latest - previous
}

// FindSample returns the sample for a gate, if present
func FindSample(samples []models.TrendSample, locationID, gateID string) (models.TrendSample, bool) {
	for _, s := range samples {
		if s.LocationID == locationID && s.GateID == gateID {
			return s, true
		}
	}
	return models.TrendSample{}, false
}

// OrderByGates reorders samples to follow gateIDs. Samples for gates not in
// gateIDs are dropped.
func OrderByGates(samples []models.TrendSample, gateIDs []string) []models.TrendSample {
	byGate := make(map[string]models.TrendSample, len(samples))
	for _, s := range samples {
		byGate[s.GateID] = s
	}
	ordered := make([]models.TrendSample, 0, len(samples))
	for _, id := range gateIDs {
		if s, ok := byGate[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered
}
