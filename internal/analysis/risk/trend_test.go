package risk

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func reading(loc, gate string, density float64, ageSeconds int) models.Reading {
	return models.Reading{
		LocationID: loc,
		GateID:     gate,
		Density:    density,
		Timestamp:  base.Add(-time.Duration(ageSeconds) * time.Second),
	}
}

func TestReduceDensities(t *testing.T) {
	testCases := []struct {
		name     string
		input    []float64
		latest   float64
		previous float64
		trend    float64
	}{
		{"single reading", []float64{7.0}, 7.0, 7.0, 0},
		{"two readings", []float64{9.5, 7.0}, 9.5, 7.0, 2.5},
		{"falling", []float64{4.0, 9.0, 1.0}, 4.0, 9.0, -5.0},
		{"empty", nil, 0, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			latest, previous, trend := ReduceDensities(tc.input)
			if latest != tc.latest || previous != tc.previous || trend != tc.trend {
				t.Errorf("Expected (%v, %v, %v), got (%v, %v, %v)",
					tc.latest, tc.previous, tc.trend, latest, previous, trend)
			}
		})
	}
}

func TestReduceGroupsInFirstSeenOrder(t *testing.T) {
	readings := []models.Reading{
		reading("stadium1", "G2", 5.0, 0),
		reading("stadium1", "G1", 8.0, 0),
		reading("stadium1", "G2", 4.0, 10),
		reading("metro1", "G1", 6.5, 0),
		reading("stadium1", "G1", 7.5, 10),
	}

	samples := Reduce(readings, 3)
	if len(samples) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(samples))
	}

	want := []models.TrendSample{
		{LocationID: "stadium1", GateID: "G2", Latest: 5.0, Previous: 4.0, Trend: 1.0},
		{LocationID: "stadium1", GateID: "G1", Latest: 8.0, Previous: 7.5, Trend: 0.5},
		{LocationID: "metro1", GateID: "G1", Latest: 6.5, Previous: 6.5, Trend: 0},
	}
	for i, w := range want {
		if samples[i] != w {
			t.Errorf("Sample %d: expected %+v, got %+v", i, w, samples[i])
		}
	}
}

func TestReduceOrdersByTimestampWithinGroup(t *testing.T) {
	readings := []models.Reading{
		reading("mall1", "G3", 2.0, 20),
		reading("mall1", "G3", 6.0, 0),
		reading("mall1", "G3", 3.0, 10),
	}

	samples := Reduce(readings, 3)
	if len(samples) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(samples))
	}
	if samples[0].Latest != 6.0 || samples[0].Previous != 3.0 {
		t.Errorf("Expected latest 6.0 previous 3.0, got %+v", samples[0])
	}
}

func TestReduceSampleInvariant(t *testing.T) {
	readings := []models.Reading{
		reading("stadium1", "G1", 9.8, 0),
		reading("stadium1", "G1", 2.5, 5),
		reading("stadium1", "G1", 6.1, 10),
		reading("stadium1", "G2", 3.3, 0),
	}

	for _, s := range Reduce(readings, 3) {
		if math.Abs(s.Trend-(s.Latest-s.Previous)) > 1e-9 {
			t.Errorf("Expected trend == latest - previous for %+v", s)
		}
	}
}

type fakeSource struct {
	readings []models.Reading
	err      error
	filter   models.ReadingFilter
}

func (f *fakeSource) QueryRecent(_ context.Context, filter models.ReadingFilter) ([]models.Reading, error) {
	f.filter = filter
	return f.readings, f.err
}

func TestExtractorPassesWindowAndFilter(t *testing.T) {
	src := &fakeSource{readings: []models.Reading{reading("metro1", "G4", 7.0, 0)}}
	ex := NewExtractor(src, 0)

	if ex.Window() != DefaultWindow {
		t.Errorf("Expected default window %d, got %d", DefaultWindow, ex.Window())
	}

	samples, err := ex.Extract(context.Background(), "metro1", []string{"G4"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(samples) != 1 || samples[0].GateID != "G4" {
		t.Errorf("Unexpected samples: %+v", samples)
	}
	if src.filter.LocationID != "metro1" || src.filter.Window != DefaultWindow || len(src.filter.GateIDs) != 1 {
		t.Errorf("Unexpected filter: %+v", src.filter)
	}
}

func TestExtractorEmptyIsNotAnError(t *testing.T) {
	ex := NewExtractor(&fakeSource{}, 3)
	samples, err := ex.Extract(context.Background(), "nowhere", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("Expected no samples, got %d", len(samples))
	}
}

func TestExtractorPropagatesStoreError(t *testing.T) {
	boom := errors.New("disk gone")
	ex := NewExtractor(&fakeSource{err: boom}, 3)
	if _, err := ex.Extract(context.Background(), "", nil); !errors.Is(err, boom) {
		t.Errorf("Expected store error, got %v", err)
	}
}

func TestOrderByGates(t *testing.T) {
	samples := []models.TrendSample{
		{GateID: "G3", Latest: 1},
		{GateID: "G1", Latest: 2},
		{GateID: "G9", Latest: 3},
	}
	ordered := OrderByGates(samples, []string{"G1", "G2", "G3"})
	if len(ordered) != 2 || ordered[0].GateID != "G1" || ordered[1].GateID != "G3" {
		t.Errorf("Unexpected order: %+v", ordered)
	}
}
