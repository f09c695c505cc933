package risk

import (
	"testing"

	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

func TestStats(t *testing.T) {
	samples := []models.TrendSample{
		{GateID: "G1", Latest: 9.5, Trend: 2.0}, // stampede
		{GateID: "G2", Latest: 5.0},             // safe
		{GateID: "G3", Latest: 6.5},             // moderate
		{GateID: "G4", Latest: 8.2},             // high
	}

	stats, err := Stats(samples)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := models.RiskCounts{Total: 4, Safe: 1, Moderate: 1, High: 1, Critical: 0, Stampede: 1}
	if stats.Summary != want {
		t.Errorf("Expected counts %+v, got %+v", want, stats.Summary)
	}

	dist := stats.RiskDistribution
	if dist.Safe != "25.0%" || dist.Moderate != "25.0%" || dist.High != "25.0%" ||
		dist.Critical != "0.0%" || dist.Stampede != "25.0%" {
		t.Errorf("Unexpected distribution: %+v", dist)
	}
}

func TestCountSumsToTotal(t *testing.T) {
	var samples []models.TrendSample
	for i := 0; i < 37; i++ {
		samples = append(samples, models.TrendSample{Latest: float64(i%11) * 0.97, Trend: float64(i%4) * 0.6})
	}
	c := Count(samples)
	if c.Safe+c.Moderate+c.High+c.Critical+c.Stampede != c.Total || c.Total != len(samples) {
		t.Errorf("Counts do not add up: %+v", c)
	}
}

func TestDistributionRounding(t *testing.T) {
	testCases := []struct {
		name   string
		counts models.RiskCounts
		want   models.RiskDistribution
	}{
		{
			name:   "thirds",
			counts: models.RiskCounts{Total: 3, Safe: 1, High: 2},
			want:   models.RiskDistribution{Safe: "33.3%", Moderate: "0.0%", High: "66.7%", Critical: "0.0%", Stampede: "0.0%"},
		},
		{
			name:   "exact halves round up",
			counts: models.RiskCounts{Total: 16, Safe: 1, Moderate: 5, High: 10},
			want:   models.RiskDistribution{Safe: "6.3%", Moderate: "31.3%", High: "62.5%", Critical: "0.0%", Stampede: "0.0%"},
		},
		{
			name:   "two safe one moderate one critical",
			counts: models.RiskCounts{Total: 4, Safe: 2, Moderate: 1, Critical: 1},
			want:   models.RiskDistribution{Safe: "50.0%", Moderate: "25.0%", High: "0.0%", Critical: "25.0%", Stampede: "0.0%"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dist, err := Distribution(tc.counts)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if dist != tc.want {
				t.Errorf("Expected %+v, got %+v", tc.want, dist)
			}
		})
	}
}

func TestStatsSafeSafeModerateCritical(t *testing.T) {
	samples := []models.TrendSample{
		{GateID: "G1", Latest: 3.0},
		{GateID: "G2", Latest: 5.5},
		{GateID: "G3", Latest: 7.0},
		{GateID: "G4", Latest: 9.3, Trend: 0.4},
	}

	stats, err := Stats(samples)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := models.RiskCounts{Total: 4, Safe: 2, Moderate: 1, Critical: 1}
	if stats.Summary != want {
		t.Errorf("Expected counts %+v, got %+v", want, stats.Summary)
	}
	wantDist := models.RiskDistribution{Safe: "50.0%", Moderate: "25.0%", High: "0.0%", Critical: "25.0%", Stampede: "0.0%"}
	if stats.RiskDistribution != wantDist {
		t.Errorf("Expected %+v, got %+v", wantDist, stats.RiskDistribution)
	}
}

func TestDistributionEmptyIsInvalidState(t *testing.T) {
	_, err := Stats(nil)
	if err == nil {
		t.Fatal("Expected an error for zero samples")
	}
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("Expected InvalidState, got %v", apperr.KindOf(err))
	}
}
