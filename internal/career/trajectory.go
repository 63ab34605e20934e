package career

import (
	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/match"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
	"github.com/jonathan/techcareer-analyzer/internal/salary"
)

// TrajectoryConfig controls the growth simulation.
type TrajectoryConfig struct {
	// Years is the final checkpoint; milestones cover 0..Years.
	Years int `json:"years"`
	// SkillsPerYear is the learning pace along the path.
	SkillsPerYear int `json:"skills_per_year"`
}

// DefaultTrajectoryConfig returns the standard simulation settings.
func DefaultTrajectoryConfig() TrajectoryConfig {
	return TrajectoryConfig{Years: 3, SkillsPerYear: 2}
}

// SalaryBand is a milestone's estimated salary range.
type SalaryBand struct {
	Min       float64 `json:"min"`
	Predicted float64 `json:"predicted"`
	Max       float64 `json:"max"`
}

// Milestone is one yearly checkpoint of the simulated trajectory.
type Milestone struct {
	Year        int        `json:"year"`
	Role        string     `json:"role"`
	SkillsCount int        `json:"skills_count"`
	Salary      SalaryBand `json:"estimated_salary"`
}

// Simulate projects the candidate forward: each year the synthetic profile
// gains the next SkillsPerYear skills from the learning path and one year
// of experience, then is re-matched and re-priced. Predicted salary and
// skill count are non-decreasing across years; if the best-matched role
// switches to one with a lower base, the estimate is clamped to the prior
// year's band.
func Simulate(ix *corpus.Index, profile match.Profile, plan Plan, agg *salary.Aggregator, cfg TrajectoryConfig) ([]Milestone, error) {
	if cfg.Years <= 0 {
		cfg.Years = DefaultTrajectoryConfig().Years
	}
	if cfg.SkillsPerYear <= 0 {
		cfg.SkillsPerYear = DefaultTrajectoryConfig().SkillsPerYear
	}

	// Copy the skill slice: the simulation mutates its own profile only.
	cur := profile
	cur.Skills = append([]registry.Skill(nil), profile.Skills...)

	milestones := make([]Milestone, 0, cfg.Years+1)
	pathIdx := 0
	var prev SalaryBand

	for year := 0; year <= cfg.Years; year++ {
		if year > 0 {
			for k := 0; k < cfg.SkillsPerYear && pathIdx < len(plan.Path); k++ {
				cur.Skills = append(cur.Skills, plan.Path[pathIdx])
				pathIdx++
			}
			cur.ExperienceYears++
		}

		top, err := match.Rank(ix, cur, 1)
		if err != nil {
			return nil, err
		}

		role := "Projected"
		var roleProfile *corpus.RoleProfile
		score := 0.0
		if len(top) > 0 {
			role = top[0].Role
			roleProfile = top[0].Profile
			score = top[0].Score
		}

		est := agg.Estimate(roleProfile, score, cur.ExperienceYears, cur.Location)
		band := SalaryBand{Min: est.Min, Predicted: est.Predicted, Max: est.Max}
		if year > 0 && band.Predicted < prev.Predicted {
			band = prev
		}

		milestones = append(milestones, Milestone{
			Year:        year,
			Role:        role,
			SkillsCount: len(cur.Skills),
			Salary:      band,
		})
		prev = band
	}
	return milestones, nil
}
