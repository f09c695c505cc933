package risk

import (
	"testing"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

func TestForecast(t *testing.T) {
	testCases := []struct {
		name   string
		latest float64
		trend  float64
		want   float64
		tag    models.RiskTag
	}{
		{"rising into stampede", 8.0, 1.5, 9.5, models.TagStampede},
		{"high rising into critical", 8.0, 1.2, 9.2, models.TagCritical},
		{"rising into critical", 8.5, 0.5, 9.0, models.TagCritical},
		{"flat", 7.0, 0, 7.0, models.TagModerate},
		{"falling below zero is not clamped", 1.0, -3.0, -2.0, models.TagSafe},
		{"rising past ten is not clamped", 9.8, 2.0, 11.8, models.TagStampede},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, result := Forecast(tc.latest, tc.trend)
			if got != tc.want {
				t.Errorf("Expected forecast %v, got %v", tc.want, got)
			}
			if result.Tag != tc.tag {
				t.Errorf("Expected tag %q, got %q", tc.tag, result.Tag)
			}
		})
	}
}

func TestForecastSampleMatchesClassify(t *testing.T) {
	s := models.TrendSample{Latest: 7.2, Previous: 6.0, Trend: 1.2}
	value, result := ForecastSample(s)
	if result != Classify(value, s.Trend) {
		t.Errorf("Expected forecast tier to equal Classify(%v, %v), got %+v", value, s.Trend, result)
	}
}
