// Package career derives skill gaps, learning paths and multi-year growth
// trajectories from match results.
package career

import (
	"sort"

	"github.com/jonathan/techcareer-analyzer/internal/match"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// Priority grades how urgently a role's gaps need closing. A role that is
// already closely matched has lower-priority gaps.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PlannerConfig carries the planner's thresholds.
type PlannerConfig struct {
	// TopRoles is how many matched roles get gap analysis.
	TopRoles int `json:"top_roles"`
	// HighBelow / MediumBelow are the match-score thresholds for priority.
	HighBelow   float64 `json:"high_below"`
	MediumBelow float64 `json:"medium_below"`
	// RelevanceFloor drops roles whose match score signals no actionable
	// plan; all-below-floor yields an empty plan, not an error.
	RelevanceFloor float64 `json:"relevance_floor"`
}

// DefaultPlannerConfig returns the standard thresholds.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		TopRoles:       4,
		HighBelow:      0.4,
		MediumBelow:    0.7,
		RelevanceFloor: 0.05,
	}
}

// SkillGap lists what a candidate is missing for one role, ordered by the
// role's own importance weights, descending.
type SkillGap struct {
	Role          string
	MissingSkills []string
	Priority      Priority
}

// Plan is the combined gap analysis across the evaluated roles.
type Plan struct {
	Gaps []SkillGap
	// Path is the merged learning path: each skill appears once, at its
	// best combined rank across roles.
	Path []registry.Skill
}

// PathNames returns the learning path as display names.
func (p Plan) PathNames() []string {
	names := make([]string, len(p.Path))
	for i, s := range p.Path {
		names[i] = s.Name
	}
	return names
}

// BuildPlan computes skill gaps for the top matched roles and merges the
// missing skills into one ordered learning path. Skills are ranked by
// (number of roles requiring them) x (average importance across those
// roles), descending, ties broken alphabetically.
func BuildPlan(results []match.Result, candidate map[string]bool, cfg PlannerConfig) Plan {
	if cfg.TopRoles <= 0 {
		cfg.TopRoles = DefaultPlannerConfig().TopRoles
	}
	if len(results) > cfg.TopRoles {
		results = results[:cfg.TopRoles]
	}

	type pathEntry struct {
		skill    registry.Skill
		roles    int
		impTotal float64
	}
	merged := make(map[string]*pathEntry)

	var plan Plan
	for _, res := range results {
		if res.Score < cfg.RelevanceFloor {
			continue
		}
		role := res.Profile

		var missing []registry.Skill
		for _, s := range role.RequiredSkills {
			if candidate[s.ID] {
				continue
			}
			missing = append(missing, s)
			entry, ok := merged[s.ID]
			if !ok {
				entry = &pathEntry{skill: s}
				merged[s.ID] = entry
			}
			entry.roles++
			entry.impTotal += role.Importance[s.ID]
		}
		if len(missing) == 0 {
			continue
		}

		// RequiredSkills is already importance-descending for the role.
		names := make([]string, len(missing))
		for i, s := range missing {
			names[i] = s.Name
		}
		plan.Gaps = append(plan.Gaps, SkillGap{
			Role:          res.Role,
			MissingSkills: names,
			Priority:      priorityFor(res.Score, cfg),
		})
	}

	entries := make([]*pathEntry, 0, len(merged))
	for _, e := range merged {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		as := float64(a.roles) * (a.impTotal / float64(a.roles))
		bs := float64(b.roles) * (b.impTotal / float64(b.roles))
		if as != bs {
			return as > bs
		}
		return a.skill.Name < b.skill.Name
	})
	plan.Path = make([]registry.Skill, len(entries))
	for i, e := range entries {
		plan.Path[i] = e.skill
	}
	return plan
}

func priorityFor(score float64, cfg PlannerConfig) Priority {
	switch {
	case score < cfg.HighBelow:
		return PriorityHigh
	case score < cfg.MediumBelow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
