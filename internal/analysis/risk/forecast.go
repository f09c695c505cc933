package risk

import "github.com/jengzang/crowdscan-backend-go/internal/models"

// Forecast extrapolates one observation interval ahead assuming the trend
// holds. The value is not clamped. The tier is computed on the forecast value
// with the original trend.
func Forecast(latest, trend float64) (float64, models.RiskResult) {
	next := latest + trend
	return next, Classify(next, trend)
}

// ForecastSample forecasts a trend sample
func ForecastSample(s models.TrendSample) (float64, models.RiskResult) {
	return Forecast(s.Latest, s.Trend)
}
