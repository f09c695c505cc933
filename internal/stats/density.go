package stats

import (
	"math"
	"sort"
)

// DensitySummary describes the spread of latest densities across gates
type DensitySummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Summarize computes a DensitySummary. Values are not modified.
func Summarize(values []float64) DensitySummary {
	if len(values) == 0 {
		return DensitySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return DensitySummary{
		Count:  len(sorted),
		Mean:   round2(Mean(sorted)),
		Median: round2(quantileSorted(sorted, 0.5)),
		P90:    round2(quantileSorted(sorted, 0.9)),
		Max:    sorted[len(sorted)-1],
	}
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func quantileSorted(sorted []float64, q float64) float64 {
	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
