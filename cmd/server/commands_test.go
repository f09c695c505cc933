package main

import (
	"math/rand"
	"testing"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

func TestSimulatedDensityRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		d := simulatedDensity(rng)
		if d < simulateMinDensity || d > simulateMaxDensity {
			t.Fatalf("Expected density in [%.1f, %.1f], got %f", simulateMinDensity, simulateMaxDensity, d)
		}
	}
}

func TestLatestDensity(t *testing.T) {
	readings := []models.Reading{
		{LocationID: "stadium1", GateID: "G1", Density: 7.456},
		{LocationID: "metro1", GateID: "G1", Density: 3},
	}

	testCases := []struct {
		location string
		gate     string
		want     string
	}{
		{"stadium1", "G1", "7.46"},
		{"metro1", "G1", "3.00"},
		{"mall1", "G1", "-"},
	}
	for _, tc := range testCases {
		if got := latestDensity(readings, tc.location, tc.gate); got != tc.want {
			t.Errorf("latestDensity(%s, %s): expected %s, got %s", tc.location, tc.gate, tc.want, got)
		}
	}
}
