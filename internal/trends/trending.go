package trends

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// timeRangeMonths maps the API's time ranges to whole month windows,
// matching the corpus index's monthly granularity.
var timeRangeMonths = map[string]int{
	"1m": 1,
	"3m": 3,
	"6m": 6,
	"1y": 12,
}

// TrendingSkill is one ranked entry of the trending query.
type TrendingSkill struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	GrowthRate float64 `json:"growth_rate"`
}

// ValidTimeRange reports whether the API time range is supported.
func ValidTimeRange(tr string) bool {
	_, ok := timeRangeMonths[tr]
	return ok
}

// Trending counts postings mentioning each catalog skill within the
// requested recent range and computes growth versus the immediately
// preceding equal-length window. Results are sorted by count descending
// (ties by name) and truncated to limit. Skills with no postings in the
// range are omitted.
func Trending(ix *corpus.Index, reg *registry.Registry, timeRange string, limit int, now time.Time) ([]TrendingSkill, error) {
	months, ok := timeRangeMonths[timeRange]
	if !ok {
		return nil, fmt.Errorf("unsupported time range %q", timeRange)
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}

	end := monthAfter(now)
	recentStart := end.AddDate(0, -months, 0)
	prevStart := end.AddDate(0, -2*months, 0)

	out := make([]TrendingSkill, 0, limit)
	for _, s := range reg.Skills() {
		count := ix.CountInWindow(s.ID, recentStart, end)
		if count == 0 {
			continue
		}
		prev := ix.CountInWindow(s.ID, prevStart, recentStart)
		out = append(out, TrendingSkill{
			Skill:      s.Name,
			Count:      count,
			GrowthRate: growthRate(count, prev),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// growthRate is the percent change against the previous window. An empty
// previous window reads as 100% growth when anything appeared, 0% otherwise.
func growthRate(recent, previous int) float64 {
	if previous == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	return math.Round(float64(recent-previous)/float64(previous)*100*100) / 100
}
