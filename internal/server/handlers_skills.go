package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/techcareer-analyzer/internal/extract"
)

// ExtractRequest is the body of POST /api/skills/extract.
type ExtractRequest struct {
	Description string `json:"description" validate:"required,min=1,max=100000"`
}

// ExtractCounts breaks down how many skills of each category were found.
type ExtractCounts struct {
	Technical int `json:"technical"`
	Soft      int `json:"soft"`
	Total     int `json:"total"`
}

// ExtractResponse is the body of POST /api/skills/extract.
type ExtractResponse struct {
	TechnicalSkills []string      `json:"technical_skills"`
	SoftSkills      []string      `json:"soft_skills"`
	Counts          ExtractCounts `json:"counts"`
}

// handleExtractSkills identifies catalog skills in free text.
func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handlerError(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.handlerError(w, validationError(err))
		return
	}

	skills, err := s.extractor.Extract(r.Context(), req.Description)
	if err != nil {
		s.handlerError(w, &ErrComputation{Op: "skill extraction", Cause: err})
		return
	}

	technical, soft := extract.Categorize(skills)
	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		TechnicalSkills: technical,
		SoftSkills:      soft,
		Counts: ExtractCounts{
			Technical: len(technical),
			Soft:      len(soft),
			Total:     len(skills),
		},
	})
}
