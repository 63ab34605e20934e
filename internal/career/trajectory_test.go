package career

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/match"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
	"github.com/jonathan/techcareer-analyzer/internal/salary"
)

func trajectoryIndex(t *testing.T) (*corpus.Index, *registry.Registry) {
	t.Helper()
	reg := registry.Default()
	var postings []corpus.Posting
	add := func(role string, skills []string, pay float64, n int) {
		for i := 0; i < n; i++ {
			postings = append(postings, corpus.Posting{
				ID:       uuid.New(),
				RoleName: role,
				Skills:   skills,
				Salary:   pay,
				PostedAt: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
				Source:   "test",
			})
		}
	}
	add("Software Engineer", []string{"Python", "JavaScript", "SQL", "Git"}, 120000, 30)
	add("Senior Software Engineer", []string{"Python", "Kubernetes", "AWS", "Docker", "Leadership"}, 155000, 30)
	add("Machine Learning Engineer", []string{"Python", "Machine Learning", "TensorFlow", "AWS"}, 150000, 30)
	return corpus.Build(postings, reg, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)), reg
}

func TestSimulate_SalaryAndSkillsNonDecreasing(t *testing.T) {
	ix, reg := trajectoryIndex(t)
	agg := salary.New(salary.Default())

	profile := match.Profile{
		Skills:          reg.ResolveAll([]string{"Python", "JavaScript"}),
		ExperienceYears: 3,
		Location:        "Remote",
	}
	results, err := match.Rank(ix, profile, 5)
	require.NoError(t, err)
	plan := BuildPlan(results, profile.SkillIDs(), DefaultPlannerConfig())

	milestones, err := Simulate(ix, profile, plan, agg, DefaultTrajectoryConfig())
	require.NoError(t, err)
	require.Len(t, milestones, 4, "year 0 through year 3")

	for i, m := range milestones {
		assert.Equal(t, i, m.Year)
		assert.LessOrEqual(t, m.Salary.Min, m.Salary.Predicted)
		assert.LessOrEqual(t, m.Salary.Predicted, m.Salary.Max)
		if i > 0 {
			prev := milestones[i-1]
			assert.GreaterOrEqual(t, m.Salary.Predicted, prev.Salary.Predicted,
				"predicted salary never regresses")
			assert.GreaterOrEqual(t, m.SkillsCount, prev.SkillsCount)
		}
	}
}

func TestSimulate_LearnsAlongThePath(t *testing.T) {
	ix, reg := trajectoryIndex(t)
	agg := salary.New(salary.Default())

	profile := match.Profile{
		Skills:          reg.ResolveAll([]string{"Python"}),
		ExperienceYears: 1,
	}
	results, err := match.Rank(ix, profile, 5)
	require.NoError(t, err)
	plan := BuildPlan(results, profile.SkillIDs(), DefaultPlannerConfig())
	require.NotEmpty(t, plan.Path)

	cfg := TrajectoryConfig{Years: 2, SkillsPerYear: 2}
	milestones, err := Simulate(ix, profile, plan, agg, cfg)
	require.NoError(t, err)
	require.Len(t, milestones, 3)

	assert.Equal(t, 1, milestones[0].SkillsCount)
	assert.Greater(t, milestones[1].SkillsCount, milestones[0].SkillsCount)
}

func TestSimulate_EmptyIndexProjects(t *testing.T) {
	reg := registry.Default()
	ix := corpus.Build(nil, reg, time.Now())
	agg := salary.New(salary.Default())

	profile := match.Profile{Skills: reg.ResolveAll([]string{"Go"})}
	milestones, err := Simulate(ix, profile, Plan{}, agg, DefaultTrajectoryConfig())
	require.NoError(t, err)
	require.Len(t, milestones, 4)

	for _, m := range milestones {
		assert.Equal(t, "Projected", m.Role)
		assert.Greater(t, m.Salary.Predicted, 0.0)
	}
}

func TestSimulate_ZeroConfigUsesDefaults(t *testing.T) {
	ix, reg := trajectoryIndex(t)
	agg := salary.New(salary.Default())

	milestones, err := Simulate(ix, match.Profile{Skills: reg.ResolveAll([]string{"Python"})}, Plan{}, agg, TrajectoryConfig{})
	require.NoError(t, err)
	assert.Len(t, milestones, DefaultTrajectoryConfig().Years+1)
}
