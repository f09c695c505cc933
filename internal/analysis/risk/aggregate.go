package risk

import (
	"fmt"
	"math"

	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

// Count tallies samples per tier
func Count(samples []models.TrendSample) models.RiskCounts {
	var counts models.RiskCounts
	for _, s := range samples {
		counts.Total++
		switch ClassifySample(s).Tag {
		case models.TagStampede:
			counts.Stampede++
		case models.TagCritical:
			counts.Critical++
		case models.TagHigh:
			counts.High++
		case models.TagModerate:
			counts.Moderate++
		default:
			counts.Safe++
		}
	}
	return counts
}

// Distribution expresses each tier as a percentage of the total with one
// decimal place. It fails with InvalidState when there are no samples.
func Distribution(counts models.RiskCounts) (models.RiskDistribution, error) {
	if counts.Total == 0 {
		return models.RiskDistribution{}, apperr.InvalidState("risk_distribution", "no gates have readings; distribution is undefined")
	}
	return models.RiskDistribution{
		Safe:     percent(counts.Safe, counts.Total),
		Moderate: percent(counts.Moderate, counts.Total),
		High:     percent(counts.High, counts.Total),
		Critical: percent(counts.Critical, counts.Total),
		Stampede: percent(counts.Stampede, counts.Total),
	}, nil
}

// Stats combines Count and Distribution
func Stats(samples []models.TrendSample) (*models.RiskStatsResponse, error) {
	counts := Count(samples)
	dist, err := Distribution(counts)
	if err != nil {
		return nil, err
	}
	return &models.RiskStatsResponse{Summary: counts, RiskDistribution: dist}, nil
}

// percent rounds half away from zero, so 1/16 is "6.3%" rather than "6.2%"
func percent(count, total int) string {
	v := float64(count) / float64(total) * 100
	return fmt.Sprintf("%.1f%%", math.Round(v*10)/10)
}
