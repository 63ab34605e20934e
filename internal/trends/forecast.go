// Package trends extrapolates per-skill posting-count series and ranks
// trending skills over recent windows.
package trends

import (
	"fmt"
	"math"
	"time"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
)

// Holt's linear double exponential smoothing constants. Fixed values keep
// the forecast bit-reproducible for identical input.
const (
	smoothingLevel = 0.5
	smoothingTrend = 0.3

	// nearZero guards the growth denominator: a series starting at ~0 is
	// reported as 0% growth, not infinite.
	nearZero = 1e-6
)

// ForecastPoint is one projected month of demand.
type ForecastPoint struct {
	Date            string  `json:"date"` // "YYYY-MM"
	PredictedDemand float64 `json:"predicted_demand"`
}

// Summary condenses a forecast into a single growth figure.
type Summary struct {
	TotalGrowthPct float64 `json:"total_growth_pct"`
}

// Forecast is the projected demand series for one skill.
type Forecast struct {
	Skill   string          `json:"skill"`
	Points  []ForecastPoint `json:"forecasts"`
	Summary Summary         `json:"summary"`
}

// ForecastSeries projects a skill's monthly posting counts forward by
// horizon months using Holt's linear trend method, clamping demand at zero.
// Deterministic: identical history and horizon yield identical output.
//
// An empty history degrades to an all-zero projection dated from now;
// callers treat that as the insufficient-data case rather than a failure.
func ForecastSeries(skill string, series []corpus.MonthCount, horizon int, now time.Time) (Forecast, error) {
	if horizon < 1 {
		return Forecast{}, fmt.Errorf("forecast horizon must be at least 1 month, got %d", horizon)
	}

	f := Forecast{Skill: skill, Points: make([]ForecastPoint, 0, horizon)}

	start := monthAfter(now)
	level, trend := 0.0, 0.0
	if len(series) > 0 {
		start = series[len(series)-1].Month.AddDate(0, 1, 0)
		level, trend = holt(series)
	}

	for h := 1; h <= horizon; h++ {
		demand := level + float64(h)*trend
		if demand < 0 {
			demand = 0
		}
		f.Points = append(f.Points, ForecastPoint{
			Date:            start.AddDate(0, h-1, 0).Format("2006-01"),
			PredictedDemand: math.Round(demand*100) / 100,
		})
	}

	first := f.Points[0].PredictedDemand
	last := f.Points[len(f.Points)-1].PredictedDemand
	if first > nearZero {
		f.Summary.TotalGrowthPct = math.Round((last-first)/first*100*100) / 100
	}
	return f, nil
}

// holt fits level and trend over the full series.
func holt(series []corpus.MonthCount) (level, trend float64) {
	level = float64(series[0].Count)
	if len(series) > 1 {
		trend = float64(series[1].Count) - float64(series[0].Count)
	}
	for t := 1; t < len(series); t++ {
		x := float64(series[t].Count)
		prevLevel := level
		level = smoothingLevel*x + (1-smoothingLevel)*(level+trend)
		trend = smoothingTrend*(level-prevLevel) + (1-smoothingTrend)*trend
	}
	return level, trend
}

func monthAfter(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
