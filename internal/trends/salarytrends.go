package trends

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
)

// SalaryPoint is one month of observed salary statistics for a role.
type SalaryPoint struct {
	Month        string  `json:"month"` // "YYYY-MM"
	AvgSalary    float64 `json:"avg_salary"`
	MedianSalary float64 `json:"median_salary"`
	SampleSize   int     `json:"sample_size"`
}

// SalaryTrend is a role's salary history over a time range.
type SalaryTrend struct {
	Role             string        `json:"role"`
	TimeRange        string        `json:"time_range"`
	Points           []SalaryPoint `json:"trends"`
	OverallChangePct float64       `json:"overall_change_pct"`
}

// SalaryTrends summarizes a role's observed salaries month by month over
// the requested range. Months with no salary observations are skipped.
func SalaryTrends(ix *corpus.Index, roleName, timeRange string, now time.Time) (SalaryTrend, error) {
	months, ok := timeRangeMonths[timeRange]
	if !ok {
		return SalaryTrend{}, fmt.Errorf("unsupported time range %q", timeRange)
	}
	role, ok := ix.Role(roleName)
	if !ok {
		return SalaryTrend{}, fmt.Errorf("role %q has no postings", roleName)
	}

	end := monthAfter(now)
	start := end.AddDate(0, -months, 0)

	keys := make([]time.Time, 0, len(role.SalaryByMonth))
	for m := range role.SalaryByMonth {
		if !m.Before(start) && m.Before(end) {
			keys = append(keys, m)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	trend := SalaryTrend{Role: role.Name, TimeRange: timeRange, Points: []SalaryPoint{}}
	for _, m := range keys {
		salaries := role.SalaryByMonth[m]
		trend.Points = append(trend.Points, SalaryPoint{
			Month:        m.Format("2006-01"),
			AvgSalary:    round2(mean(salaries)),
			MedianSalary: round2(median(salaries)),
			SampleSize:   len(salaries),
		})
	}

	if len(trend.Points) >= 2 {
		first := trend.Points[0].AvgSalary
		last := trend.Points[len(trend.Points)-1].AvgSalary
		if first > nearZero {
			trend.OverallChangePct = round2((last - first) / first * 100)
		}
	}
	return trend, nil
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
