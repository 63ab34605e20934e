package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestTrendingSkillsEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/trends/skills?time_range=3m&limit=5", nil)
	w := httptest.NewRecorder()
	s.handleTrendingSkills(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[TrendingResponse](t, w)
	assert.Equal(t, "3m", resp.TimeRange)
	require.NotEmpty(t, resp.Skills)
	assert.LessOrEqual(t, len(resp.Skills), 5)

	for i := 1; i < len(resp.Skills); i++ {
		assert.LessOrEqual(t, resp.Skills[i].Count, resp.Skills[i-1].Count)
	}
	// JavaScript appears in the two biggest roles: it should lead.
	assert.Equal(t, "JavaScript", resp.Skills[0].Skill)

	raw := decodeBody[map[string]any](t, w)
	assert.Contains(t, raw, "trends")
	assert.NotContains(t, raw, "skills")
}

func TestTrendingSkillsEndpoint_Validation(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	for _, url := range []string{
		"/api/trends/skills?time_range=2w",
		"/api/trends/skills?limit=0",
		"/api/trends/skills?limit=999",
		"/api/trends/skills?limit=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		s.handleTrendingSkills(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestForecastEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/trends/forecast/6?skills=Python,React", nil)
	req.SetPathValue("months", "6")
	w := httptest.NewRecorder()
	s.handleForecast(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ForecastResponse](t, w)
	assert.Equal(t, 6, resp.Months)
	require.Len(t, resp.Forecasts, 2)
	assert.Empty(t, resp.Failed)

	// Forecasts are an object keyed by canonical skill name.
	require.Contains(t, resp.Forecasts, "Python")
	require.Contains(t, resp.Forecasts, "React")
	for _, f := range resp.Forecasts {
		assert.Len(t, f.Points, 6)
		for _, p := range f.Points {
			assert.GreaterOrEqual(t, p.PredictedDemand, 0.0)
		}
	}
}

func TestForecastEndpoint_DefaultsToTrendingSkills(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/trends/forecast/3", nil)
	req.SetPathValue("months", "3")
	w := httptest.NewRecorder()
	s.handleForecast(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ForecastResponse](t, w)
	assert.NotEmpty(t, resp.Forecasts)
}

func TestForecastEndpoint_Validation(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	for _, months := range []string{"0", "25", "-1", "six"} {
		req := httptest.NewRequest(http.MethodGet, "/api/trends/forecast/"+months, nil)
		req.SetPathValue("months", months)
		w := httptest.NewRecorder()
		s.handleForecast(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "months=%s", months)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trends/forecast/6?skills=Cobol,Fortran", nil)
	req.SetPathValue("months", "6")
	w := httptest.NewRecorder()
	s.handleForecast(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unrecognized skills")
}

func TestSalaryTrendsEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/trends/salary/Software%20Engineer", nil)
	req.SetPathValue("role", "Software Engineer")
	w := httptest.NewRecorder()
	s.handleSalaryTrends(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "Software Engineer", body["role"])
	assert.NotEmpty(t, body["trends"])
}

func TestSalaryTrendsEndpoint_UnknownRole(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/trends/salary/Underwriter", nil)
	req.SetPathValue("role", "Underwriter")
	w := httptest.NewRecorder()
	s.handleSalaryTrends(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handleAnalyze, "/api/career/analyze", AnalyzeRequest{
		Skills:          []string{"Python", "JavaScript"},
		ExperienceYears: 3,
		Location:        "Remote",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[AnalyzeResponse](t, w)

	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Software Engineer", resp.Matches[0].Role, "both skills hit")
	for i, m := range resp.Matches {
		assert.GreaterOrEqual(t, m.MatchScore, 0.0)
		assert.LessOrEqual(t, m.MatchScore, 1.0)
		if i > 0 {
			assert.LessOrEqual(t, m.MatchScore, resp.Matches[i-1].MatchScore)
		}
	}

	require.Len(t, resp.Trajectory, 4, "year 0 through year 3")
	for i := 1; i < len(resp.Trajectory); i++ {
		assert.GreaterOrEqual(t, resp.Trajectory[i].Salary.Predicted,
			resp.Trajectory[i-1].Salary.Predicted)
		assert.GreaterOrEqual(t, resp.Trajectory[i].SkillsCount,
			resp.Trajectory[i-1].SkillsCount)
	}

	assert.NotNil(t, resp.SkillGaps)
	assert.NotNil(t, resp.LearningPath)

	raw := decodeBody[map[string]any](t, w)
	assert.Contains(t, raw, "recommended_roles")
	assert.Contains(t, raw, "growth_trajectory")
	assert.NotContains(t, raw, "matches")
	assert.NotContains(t, raw, "trajectory")
}

func TestAnalyzeEndpoint_Validation(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handleAnalyze, "/api/career/analyze", AnalyzeRequest{
		Skills:          []string{"Python"},
		ExperienceYears: -2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "negative experience")

	req := httptest.NewRequest(http.MethodPost, "/api/career/analyze", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	s.handleAnalyze(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpoint_UnknownSkillsDegrade(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handleAnalyze, "/api/career/analyze", AnalyzeRequest{
		Skills: []string{"Underwater Basket Weaving"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[AnalyzeResponse](t, w)
	require.NotEmpty(t, resp.Matches, "zero-signal still ranks by popularity")
	for _, m := range resp.Matches {
		assert.Zero(t, m.MatchScore)
	}
}

func TestAnalyzeEndpoint_EmptySkills(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handleAnalyze, "/api/career/analyze", AnalyzeRequest{
		Skills:          []string{},
		ExperienceYears: 3,
	})

	require.Equal(t, http.StatusOK, w.Code, "empty skill set is zero-signal, not invalid")
	resp := decodeBody[AnalyzeResponse](t, w)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Software Engineer", resp.Matches[0].Role, "largest sample leads")
	for _, m := range resp.Matches {
		assert.Zero(t, m.MatchScore)
	}
	require.Len(t, resp.Trajectory, 4)
}

func TestRoleRequirementsEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/career/roles/machine%20learning%20engineer", nil)
	req.SetPathValue("role", "machine learning engineer")
	w := httptest.NewRecorder()
	s.handleRoleRequirements(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[RoleResponse](t, w)
	assert.Equal(t, "Machine Learning Engineer", resp.Role)
	assert.Equal(t, 18, resp.SampleCount)
	require.NotEmpty(t, resp.RequiredSkills)

	for i := 1; i < len(resp.RequiredSkills); i++ {
		assert.LessOrEqual(t, resp.RequiredSkills[i].Importance,
			resp.RequiredSkills[i-1].Importance)
	}
}

func TestRoleRequirementsEndpoint_NotFound(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/career/roles/Underwriter", nil)
	req.SetPathValue("role", "Underwriter")
	w := httptest.NewRecorder()
	s.handleRoleRequirements(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtractEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handleExtractSkills, "/api/skills/extract", ExtractRequest{
		Description: "Looking for a golang engineer with Kubernetes and strong communication skills.",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ExtractResponse](t, w)
	assert.Contains(t, resp.TechnicalSkills, "Go")
	assert.Contains(t, resp.TechnicalSkills, "Kubernetes")
	assert.Contains(t, resp.SoftSkills, "Communication")
	assert.Equal(t, len(resp.TechnicalSkills), resp.Counts.Technical)
	assert.Equal(t, len(resp.SoftSkills), resp.Counts.Soft)
	assert.Equal(t, resp.Counts.Technical+resp.Counts.Soft, resp.Counts.Total)
}

func TestExtractEndpoint_Validation(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handleExtractSkills, "/api/skills/extract", ExtractRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handlePredictSalary, "/api/salary/predict", PredictRequest{
		Role:            "Software Engineer",
		Skills:          []string{"Python", "JavaScript", "SQL", "Git"},
		ExperienceYears: 5,
		Location:        "San Francisco, CA",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[PredictResponse](t, w)
	assert.Equal(t, "Software Engineer", resp.Role)
	assert.Less(t, resp.SalaryRange.Min, resp.PredictedSalary)
	assert.Less(t, resp.PredictedSalary, resp.SalaryRange.Max)
	assert.GreaterOrEqual(t, resp.Confidence, 0.4)
	assert.LessOrEqual(t, resp.Confidence, 0.95)

	sum := 0.0
	for _, v := range resp.Factors {
		sum += v
	}
	assert.InDelta(t, 100, sum, 0.01)

	raw := decodeBody[map[string]any](t, w)
	assert.Contains(t, raw, "confidence_score")
	assert.NotContains(t, raw, "confidence")
}

func TestPredictEndpoint_UnknownRoleDegrades(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handlePredictSalary, "/api/salary/predict", PredictRequest{
		Role: "Chief Vibes Officer",
	})

	require.Equal(t, http.StatusOK, w.Code, "unknown roles degrade, not fail")
	resp := decodeBody[PredictResponse](t, w)
	assert.InDelta(t, 100000, resp.PredictedSalary, 0.01, "default base")
	assert.InDelta(t, 0.5, resp.Confidence, 1e-9, "low confidence")
	assert.InDelta(t, 50, resp.MarketPercentile, 0.01)
}

func TestPredictEndpoint_MoreSkillsNeverLowerEstimate(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	base := decodeBody[PredictResponse](t, postJSON(t, s.handlePredictSalary, "/api/salary/predict", PredictRequest{
		Role: "Software Engineer",
	}))
	skilled := decodeBody[PredictResponse](t, postJSON(t, s.handlePredictSalary, "/api/salary/predict", PredictRequest{
		Role:   "Software Engineer",
		Skills: []string{"Python", "JavaScript", "SQL", "Git"},
	}))

	assert.GreaterOrEqual(t, skilled.PredictedSalary, base.PredictedSalary)
	assert.GreaterOrEqual(t, skilled.Confidence, base.Confidence)
}

func TestPredictEndpoint_Validation(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	w := postJSON(t, s.handlePredictSalary, "/api/salary/predict", PredictRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "role required")
}

func TestSalaryRangeEndpoint(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/salary/range/Frontend%20Developer", nil)
	req.SetPathValue("role", "Frontend Developer")
	w := httptest.NewRecorder()
	s.handleSalaryRange(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[RangeResponse](t, w)
	assert.Equal(t, "Frontend Developer", resp.Role)
	assert.LessOrEqual(t, resp.Min, resp.P25)
	assert.LessOrEqual(t, resp.P25, resp.Median)
	assert.LessOrEqual(t, resp.Median, resp.P75)
	assert.LessOrEqual(t, resp.P75, resp.Max)
	assert.Equal(t, 24, resp.SampleCount)
}

func TestSalaryRangeEndpoint_LocationFilter(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/salary/range/Frontend%20Developer?location=remote", nil)
	req.SetPathValue("role", "Frontend Developer")
	w := httptest.NewRecorder()
	s.handleSalaryRange(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[RangeResponse](t, w)
	assert.Equal(t, "remote", resp.Location)
	assert.Equal(t, 24, resp.SampleCount, "fixture postings are all remote")

	req = httptest.NewRequest(http.MethodGet, "/api/salary/range/Frontend%20Developer?location=austin", nil)
	req.SetPathValue("role", "Frontend Developer")
	w = httptest.NewRecorder()
	s.handleSalaryRange(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "no observations in that location")
}

func TestSalaryRangeEndpoint_NotFound(t *testing.T) {
	s := newTestServer(t, fixturePostings())

	req := httptest.NewRequest(http.MethodGet, "/api/salary/range/Underwriter", nil)
	req.SetPathValue("role", "Underwriter")
	w := httptest.NewRecorder()
	s.handleSalaryRange(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
