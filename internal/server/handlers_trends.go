package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/techcareer-analyzer/internal/trends"
)

const (
	defaultTrendingRange = "3m"
	defaultTrendingLimit = 20
	maxForecastMonths    = 24

	// defaultForecastSkills caps how many trending skills are forecast when
	// the request names none.
	defaultForecastSkills = 10
)

// TrendingResponse is the body of GET /api/trends/skills.
type TrendingResponse struct {
	TimeRange string                 `json:"time_range"`
	Skills    []trends.TrendingSkill `json:"trends"`
}

// ForecastResponse is the body of GET /api/trends/forecast/{months}.
// Forecasts is keyed by canonical skill name.
type ForecastResponse struct {
	Months    int                        `json:"months"`
	Forecasts map[string]trends.Forecast `json:"forecasts"`
	Failed    map[string]string          `json:"failed,omitempty"`
}

// handleTrendingSkills ranks catalog skills by recent posting volume.
func (s *Server) handleTrendingSkills(w http.ResponseWriter, r *http.Request) {
	timeRange := r.URL.Query().Get("time_range")
	if timeRange == "" {
		timeRange = defaultTrendingRange
	}
	if !trends.ValidTimeRange(timeRange) {
		s.handlerError(w, &ErrValidation{Field: "time_range", Message: "must be one of 1m, 3m, 6m, 1y"})
		return
	}

	limit := defaultTrendingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			s.handlerError(w, &ErrValidation{Field: "limit", Message: "must be an integer in 1-100"})
			return
		}
		limit = n
	}

	cacheKey := fmt.Sprintf("trending:%s:%d", timeRange, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.jsonResponse(w, http.StatusOK, cached)
		return
	}

	skills, err := trends.Trending(s.holder.Snapshot(), s.reg, timeRange, limit, time.Now())
	if err != nil {
		s.handlerError(w, &ErrComputation{Op: "trending", Cause: err})
		return
	}

	resp := TrendingResponse{TimeRange: timeRange, Skills: skills}
	s.cache.Set(cacheKey, resp)
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleForecast projects demand for the requested skills. Without an
// explicit skills parameter it forecasts the currently trending ones.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	months, err := strconv.Atoi(r.PathValue("months"))
	if err != nil || months < 1 || months > maxForecastMonths {
		s.handlerError(w, &ErrValidation{
			Field:   "months",
			Message: fmt.Sprintf("must be an integer in 1-%d", maxForecastMonths),
		})
		return
	}

	ix := s.holder.Snapshot()
	now := time.Now()

	skillsParam := r.URL.Query().Get("skills")
	var names []string
	if skillsParam != "" {
		names = strings.Split(skillsParam, ",")
	} else {
		trending, err := trends.Trending(ix, s.reg, defaultTrendingRange, defaultForecastSkills, now)
		if err != nil {
			s.handlerError(w, &ErrComputation{Op: "trending", Cause: err})
			return
		}
		for _, t := range trending {
			names = append(names, t.Skill)
		}
	}

	skills := s.reg.ResolveAll(names)
	if len(skills) == 0 {
		s.handlerError(w, &ErrValidation{Field: "skills", Message: "no recognized skills to forecast"})
		return
	}

	cacheKey := fmt.Sprintf("forecast:%d:%s", months, skillsParam)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.jsonResponse(w, http.StatusOK, cached)
		return
	}

	results := trends.BatchForecast(r.Context(), ix, skills, months, now)

	resp := ForecastResponse{Months: months, Forecasts: make(map[string]trends.Forecast, len(skills))}
	for _, skill := range skills {
		res := results[skill.Name]
		if res.Err != nil {
			if resp.Failed == nil {
				resp.Failed = make(map[string]string)
			}
			resp.Failed[skill.Name] = res.Err.Error()
			continue
		}
		resp.Forecasts[skill.Name] = res.Forecast
	}

	s.cache.Set(cacheKey, resp)
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSalaryTrends reports a role's observed salary history.
func (s *Server) handleSalaryTrends(w http.ResponseWriter, r *http.Request) {
	roleName := r.PathValue("role")
	timeRange := r.URL.Query().Get("time_range")
	if timeRange == "" {
		timeRange = "1y"
	}
	if !trends.ValidTimeRange(timeRange) {
		s.handlerError(w, &ErrValidation{Field: "time_range", Message: "must be one of 1m, 3m, 6m, 1y"})
		return
	}

	ix := s.holder.Snapshot()
	if _, ok := ix.Role(roleName); !ok {
		s.handlerError(w, &ErrNotFound{Resource: "role", Name: roleName})
		return
	}

	trend, err := trends.SalaryTrends(ix, roleName, timeRange, time.Now())
	if err != nil {
		s.handlerError(w, &ErrComputation{Op: "salary trends", Cause: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, trend)
}
