// Package match scores candidate profiles against role profiles from the
// corpus index. Ranking is a pure function of snapshot and profile.
package match

import (
	"fmt"
	"sort"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// Profile is a candidate's per-request profile. Skills are registry entries,
// already resolved and deduplicated.
type Profile struct {
	Skills          []registry.Skill
	ExperienceYears float64
	Location        string
}

// SkillIDs returns the candidate's skill identities as a set.
func (p Profile) SkillIDs() map[string]bool {
	ids := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		ids[s.ID] = true
	}
	return ids
}

// Result is one ranked role recommendation.
type Result struct {
	Role           string
	Score          float64 // weighted skill overlap in [0,1]
	RequiredSkills []string
	AvgSalary      float64

	// Profile carries the underlying role aggregate for downstream
	// planning and salary estimation; not serialized.
	Profile *corpus.RoleProfile
}

// InvalidProfileError reports a candidate profile the matcher cannot score.
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}

// Rank scores the candidate against every role in the snapshot and returns
// the top n results, sorted by score descending with ties broken by higher
// average salary, then role name.
//
// An empty skill set is the zero-signal case, not an error: roles come back
// ranked by popularity (sample count, then average salary) with Score 0.
func Rank(ix *corpus.Index, p Profile, n int) ([]Result, error) {
	if n < 1 {
		return nil, &InvalidProfileError{Field: "limit", Reason: "must be at least 1"}
	}
	if p.ExperienceYears < 0 {
		return nil, &InvalidProfileError{Field: "experience_years", Reason: "must be non-negative"}
	}

	zeroSignal := len(p.Skills) == 0
	candidate := p.SkillIDs()

	results := make([]Result, 0, len(ix.RoleProfiles()))
	for _, role := range ix.RoleProfiles() {
		if role.TotalWeight <= 0 {
			// No weighted requirements defined: excluded rather than
			// dividing by zero.
			continue
		}
		score := 0.0
		if !zeroSignal {
			matched := 0.0
			for id, imp := range role.Importance {
				if candidate[id] {
					matched += imp
				}
			}
			score = matched / role.TotalWeight
		}
		required := make([]string, len(role.RequiredSkills))
		for i, s := range role.RequiredSkills {
			required[i] = s.Name
		}
		results = append(results, Result{
			Role:           role.Name,
			Score:          score,
			RequiredSkills: required,
			AvgSalary:      role.AvgSalary,
			Profile:        role,
		})
	}

	if zeroSignal {
		sort.Slice(results, func(i, j int) bool {
			a, b := results[i], results[j]
			if a.Profile.SampleCount != b.Profile.SampleCount {
				return a.Profile.SampleCount > b.Profile.SampleCount
			}
			if a.AvgSalary != b.AvgSalary {
				return a.AvgSalary > b.AvgSalary
			}
			return a.Role < b.Role
		})
	} else {
		sort.Slice(results, func(i, j int) bool {
			a, b := results[i], results[j]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if a.AvgSalary != b.AvgSalary {
				return a.AvgSalary > b.AvgSalary
			}
			return a.Role < b.Role
		})
	}

	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}
