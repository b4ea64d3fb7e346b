package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/middleware"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/internal/service"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
)

type testEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta(grading.DefaultPolicy.Version))
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope testEnvelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func newPlannerRouter() *gin.Engine {
	r := newTestRouter()
	h := NewPlannerHandler(service.NewPlannerService(service.PlannerServiceParams{}))
	r.GET("/policy", h.Policy)
	r.POST("/grades/subject", h.GradeSubject)
	r.GET("/planner/template", h.Template)
	r.POST("/planner/normalize", h.Normalize)
	r.POST("/planner/summary", h.Summary)
	r.POST("/planner/forecast", h.Forecast)
	return r
}

func score(v float64) *float64 { return &v }

func TestPlannerHandlerPolicyAndTemplate(t *testing.T) {
	r := newPlannerRouter()

	rec, env := performJSON(t, r, http.MethodGet, "/policy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	var policy grading.Policy
	require.NoError(t, json.Unmarshal(env.Data, &policy))
	assert.Equal(t, grading.DefaultPolicy.Version, policy.Version)
	assert.Equal(t, grading.DefaultPolicy.Version, env.Meta["policy_version"])

	rec, env = performJSON(t, r, http.MethodGet, "/planner/template", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot models.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Len(t, snapshot.Semesters, 8)
	assert.Equal(t, 125, snapshot.TotalCreditsRequired)
}

func TestPlannerHandlerGradeSubject(t *testing.T) {
	r := newPlannerRouter()

	rec, env := performJSON(t, r, http.MethodPost, "/grades/subject", dto.GradeSubjectRequest{
		Credits: 3,
		Scores:  dto.ScoreInput{Attendance: score(10), Process: score(8), Midterm: score(7), Final: score(6)},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.GradeSubjectResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotNil(t, result.Grade)
	assert.InDelta(t, 7.0, result.Grade.Average10, 1e-9)
	assert.Equal(t, grading.StatusPass, result.Status)

	rec, env = performJSON(t, r, http.MethodPost, "/grades/subject", dto.GradeSubjectRequest{
		Scores: dto.ScoreInput{Final: score(11)},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = performJSON(t, r, http.MethodPost, "/grades/subject", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlannerHandlerNormalizeAndSummary(t *testing.T) {
	r := newPlannerRouter()
	snapshot := dto.SnapshotRequest{
		TargetGPA:            3.2,
		TotalCreditsRequired: 120,
		Semesters: []dto.SemesterInput{{
			ID:   "y1_hk1",
			Name: "Năm 1 - Học kỳ 1",
			Subjects: []dto.SubjectInput{{
				Name:    "Kinh tế vi mô",
				Credits: 3,
				Scores:  dto.ScoreInput{Attendance: score(9), Process: score(9), Midterm: score(9), Final: score(9)},
			}},
		}},
	}

	rec, env := performJSON(t, r, http.MethodPost, "/planner/normalize", snapshot)
	require.Equal(t, http.StatusOK, rec.Code)
	var normalized models.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &normalized))
	require.Len(t, normalized.Semesters, 1)
	assert.NotEmpty(t, normalized.Semesters[0].Subjects[0].ID)
	require.NotNil(t, normalized.Semesters[0].Term)
	assert.Equal(t, 1, normalized.Semesters[0].Term.Year)

	rec, env = performJSON(t, r, http.MethodPost, "/planner/summary", dto.SummaryRequest{Snapshot: snapshot})
	require.Equal(t, http.StatusOK, rec.Code)
	var summary dto.SummaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.InDelta(t, 3.7, summary.Cumulative.GPA4, 1e-9)
	assert.Equal(t, 3, summary.Cumulative.PassedCredits)
	assert.Equal(t, false, env.Meta["cache_hit"])
}

func TestPlannerHandlerForecast(t *testing.T) {
	r := newPlannerRouter()

	rec, env := performJSON(t, r, http.MethodPost, "/planner/forecast", dto.ForecastRequest{
		CurrentGPA4:          3.0,
		PassedCredits:        60,
		TotalCreditsRequired: 120,
		TargetGPA:            3.2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.ForecastResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotNil(t, result.Forecast)
	assert.InDelta(t, 3.4, result.Forecast.RequiredGPA, 1e-9)
	assert.False(t, result.MeetsTarget)

	rec, _ = performJSON(t, r, http.MethodPost, "/planner/forecast", dto.ForecastRequest{CurrentGPA4: 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
