package trends

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// batchConcurrency bounds the fan-out of a batch forecast.
const batchConcurrency = 8

// BatchResult is the outcome for one skill in a batch forecast. A failed
// skill carries Err and never aborts the rest of the batch.
type BatchResult struct {
	Forecast Forecast
	Err      error
}

// BatchForecast forecasts demand for each named skill concurrently.
// The returned map is keyed by skill display name and always contains one
// entry per requested skill, failed or not.
func BatchForecast(ctx context.Context, ix *corpus.Index, skills []registry.Skill, horizon int, now time.Time) map[string]BatchResult {
	results := make([]BatchResult, len(skills))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, s := range skills {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Err: err}
				return nil
			}
			fc, err := ForecastSeries(s.Name, ix.SkillSeries(s.ID), horizon, now)
			if err != nil {
				results[i] = BatchResult{Err: fmt.Errorf("forecast %s: %w", s.Name, err)}
				return nil
			}
			results[i] = BatchResult{Forecast: fc}
			return nil
		})
	}
	// Per-skill errors live in results, never in the group error.
	_ = g.Wait()

	out := make(map[string]BatchResult, len(skills))
	for i, s := range skills {
		out[s.Name] = results[i]
	}
	return out
}
