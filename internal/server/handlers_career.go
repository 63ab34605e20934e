package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/techcareer-analyzer/internal/career"
	"github.com/jonathan/techcareer-analyzer/internal/match"
)

const defaultTopMatches = 5

// AnalyzeRequest is the body of POST /api/career/analyze.
type AnalyzeRequest struct {
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years" validate:"gte=0,lte=60"`
	Location        string   `json:"location"`
	TopN            int      `json:"top_n" validate:"gte=0,lte=20"`
}

// RoleMatch is one ranked recommendation in the analyze response.
type RoleMatch struct {
	Role           string   `json:"role"`
	MatchScore     float64  `json:"match_score"`
	RequiredSkills []string `json:"required_skills"`
	AvgSalary      float64  `json:"avg_salary"`
}

// SkillGapView mirrors career.SkillGap for serialization.
type SkillGapView struct {
	Role          string   `json:"role"`
	MissingSkills []string `json:"missing_skills"`
	Priority      string   `json:"priority"`
}

// AnalyzeResponse is the body of POST /api/career/analyze.
type AnalyzeResponse struct {
	Matches      []RoleMatch        `json:"recommended_roles"`
	SkillGaps    []SkillGapView     `json:"skill_gaps"`
	LearningPath []string           `json:"learning_path"`
	Trajectory   []career.Milestone `json:"growth_trajectory"`
}

// handleAnalyze runs the full pipeline: rank roles, derive skill gaps and a
// learning path, then simulate the multi-year trajectory.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handlerError(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.handlerError(w, validationError(err))
		return
	}
	if req.TopN == 0 {
		req.TopN = defaultTopMatches
	}

	ix := s.holder.Snapshot()
	profile := match.Profile{
		Skills:          s.reg.ResolveAll(req.Skills),
		ExperienceYears: req.ExperienceYears,
		Location:        req.Location,
	}

	results, err := match.Rank(ix, profile, req.TopN)
	if err != nil {
		s.handlerError(w, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}

	plan := career.BuildPlan(results, profile.SkillIDs(), s.plannerCfg)
	trajectory, err := career.Simulate(ix, profile, plan, s.agg, s.trajectoryCfg)
	if err != nil {
		s.handlerError(w, &ErrComputation{Op: "trajectory simulation", Cause: err})
		return
	}

	resp := AnalyzeResponse{
		Matches:      []RoleMatch{},
		SkillGaps:    []SkillGapView{},
		LearningPath: plan.PathNames(),
		Trajectory:   trajectory,
	}
	for _, res := range results {
		resp.Matches = append(resp.Matches, RoleMatch{
			Role:           res.Role,
			MatchScore:     res.Score,
			RequiredSkills: res.RequiredSkills,
			AvgSalary:      res.AvgSalary,
		})
	}
	for _, gap := range plan.Gaps {
		resp.SkillGaps = append(resp.SkillGaps, SkillGapView{
			Role:          gap.Role,
			MissingSkills: gap.MissingSkills,
			Priority:      string(gap.Priority),
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// RequiredSkillView is one weighted requirement of a role.
type RequiredSkillView struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Importance float64 `json:"importance"`
}

// RoleResponse is the body of GET /api/career/roles/{role}.
type RoleResponse struct {
	Role           string              `json:"role"`
	SampleCount    int                 `json:"sample_count"`
	AvgSalary      float64             `json:"avg_salary"`
	RequiredSkills []RequiredSkillView `json:"required_skills"`
}

// handleRoleRequirements reports what the corpus knows about one role.
func (s *Server) handleRoleRequirements(w http.ResponseWriter, r *http.Request) {
	roleName := r.PathValue("role")

	role, ok := s.holder.Snapshot().Role(roleName)
	if !ok {
		s.handlerError(w, &ErrNotFound{Resource: "role", Name: roleName})
		return
	}

	resp := RoleResponse{
		Role:           role.Name,
		SampleCount:    role.SampleCount,
		AvgSalary:      role.AvgSalary,
		RequiredSkills: []RequiredSkillView{},
	}
	for _, skill := range role.RequiredSkills {
		resp.RequiredSkills = append(resp.RequiredSkills, RequiredSkillView{
			Name:       skill.Name,
			Category:   string(skill.Category),
			Importance: role.Importance[skill.ID],
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
