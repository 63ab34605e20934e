package trends

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

func TestBatchForecast_OneResultPerSkill(t *testing.T) {
	reg := registry.Default()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	var postings []corpus.Posting
	for i := 0; i < 6; i++ {
		postings = append(postings, corpus.Posting{
			ID:       uuid.New(),
			RoleName: "Engineer",
			Skills:   []string{"Python", "Go"},
			PostedAt: now.AddDate(0, -i, 0),
			Source:   "test",
		})
	}
	ix := corpus.Build(postings, reg, now)

	skills := reg.ResolveAll([]string{"Python", "Go", "Rust"})
	require.Len(t, skills, 3)

	results := BatchForecast(context.Background(), ix, skills, 6, now)
	require.Len(t, results, 3)

	for _, name := range []string{"Python", "Go"} {
		res, ok := results[name]
		require.True(t, ok, name)
		require.NoError(t, res.Err)
		assert.Equal(t, name, res.Forecast.Skill)
		assert.Len(t, res.Forecast.Points, 6)
	}

	// Rust has no history: degraded zero forecast, not an error.
	rust, ok := results["Rust"]
	require.True(t, ok)
	require.NoError(t, rust.Err)
	for _, p := range rust.Forecast.Points {
		assert.Zero(t, p.PredictedDemand)
	}
}

func TestBatchForecast_MatchesSingleForecast(t *testing.T) {
	reg := registry.Default()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	var postings []corpus.Posting
	for i := 0; i < 4; i++ {
		postings = append(postings, corpus.Posting{
			ID:       uuid.New(),
			RoleName: "Engineer",
			Skills:   []string{"Python"},
			PostedAt: now.AddDate(0, -i, 0),
			Source:   "test",
		})
	}
	ix := corpus.Build(postings, reg, now)
	python, _ := reg.Resolve("Python")

	single, err := ForecastSeries("Python", ix.SkillSeries(python.ID), 3, now)
	require.NoError(t, err)

	batch := BatchForecast(context.Background(), ix, []registry.Skill{python}, 3, now)
	require.NoError(t, batch["Python"].Err)
	assert.Equal(t, single, batch["Python"].Forecast)
}

func TestBatchForecast_EmptySkillList(t *testing.T) {
	ix := corpus.Build(nil, registry.Default(), time.Now())
	results := BatchForecast(context.Background(), ix, nil, 3, time.Now())
	assert.Empty(t, results)
}
