package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// PredictRequest is the body of POST /api/salary/predict.
type PredictRequest struct {
	Role            string   `json:"role" validate:"required,min=1"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years" validate:"gte=0,lte=60"`
	Location        string   `json:"location"`
}

// SalaryRangeView is a min/max band.
type SalaryRangeView struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PredictResponse is the body of POST /api/salary/predict.
type PredictResponse struct {
	Role             string             `json:"role"`
	PredictedSalary  float64            `json:"predicted_salary"`
	SalaryRange      SalaryRangeView    `json:"salary_range"`
	Confidence       float64            `json:"confidence_score"`
	MarketPercentile float64            `json:"market_percentile"`
	Factors          map[string]float64 `json:"factors"`
}

// handlePredictSalary estimates pay for a role and candidate profile.
// Unknown roles degrade to the default base with lowered confidence rather
// than failing.
func (s *Server) handlePredictSalary(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handlerError(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.handlerError(w, validationError(err))
		return
	}

	role, _ := s.holder.Snapshot().Role(req.Role)
	skills := s.reg.ResolveAll(req.Skills)
	score := matchScoreFor(role, skills)

	est := s.agg.Estimate(role, score, req.ExperienceYears, req.Location)

	roleName := req.Role
	if role != nil {
		roleName = role.Name
	}
	s.jsonResponse(w, http.StatusOK, PredictResponse{
		Role:             roleName,
		PredictedSalary:  est.Predicted,
		SalaryRange:      SalaryRangeView{Min: est.Min, Max: est.Max},
		Confidence:       est.Confidence,
		MarketPercentile: est.MarketPercentile,
		Factors:          est.Factors,
	})
}

// RangeResponse is the body of GET /api/salary/range/{role}.
type RangeResponse struct {
	Role        string  `json:"role"`
	Location    string  `json:"location"`
	Min         float64 `json:"min"`
	P25         float64 `json:"p25"`
	Median      float64 `json:"median"`
	P75         float64 `json:"p75"`
	Max         float64 `json:"max"`
	Avg         float64 `json:"avg"`
	SampleCount int     `json:"sample_count"`
}

// handleSalaryRange reports the observed salary distribution for a role,
// optionally narrowed to postings whose location matches a substring.
func (s *Server) handleSalaryRange(w http.ResponseWriter, r *http.Request) {
	roleName := r.PathValue("role")
	location := r.URL.Query().Get("location")

	role, ok := s.holder.Snapshot().Role(roleName)
	if !ok {
		s.handlerError(w, &ErrNotFound{Resource: "role", Name: roleName})
		return
	}

	salaries := role.SalariesIn(location) // ascending
	if len(salaries) == 0 {
		s.handlerError(w, &ErrInsufficientData{Resource: "salary range for " + role.Name})
		return
	}

	locationLabel := location
	if locationLabel == "" {
		locationLabel = "All locations"
	}
	s.jsonResponse(w, http.StatusOK, RangeResponse{
		Role:        role.Name,
		Location:    locationLabel,
		Min:         salaries[0],
		P25:         quantile(salaries, 0.25),
		Median:      quantile(salaries, 0.50),
		P75:         quantile(salaries, 0.75),
		Max:         salaries[len(salaries)-1],
		Avg:         mean(salaries),
		SampleCount: len(salaries),
	})
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// matchScoreFor is the weighted overlap of the candidate's skills against
// the role's requirements. Zero when either side has no signal.
func matchScoreFor(role *corpus.RoleProfile, skills []registry.Skill) float64 {
	if role == nil || role.TotalWeight <= 0 || len(skills) == 0 {
		return 0
	}
	matched := 0.0
	for _, s := range skills {
		if imp, ok := role.Importance[s.ID]; ok {
			matched += imp
		}
	}
	return matched / role.TotalWeight
}

// quantile interpolates linearly within an ascending sample.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
