package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/internal/service"
	"github.com/noah-isme/hub-grade-planner/pkg/storage"
)

func TestExportHandlerRoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewExportService(service.ExportServiceParams{
		Planner: service.NewPlannerService(service.PlannerServiceParams{}),
		Storage: store,
		Signer:  storage.NewSignedURLSigner("secret", time.Hour),
		Config:  service.ExportConfig{Enabled: true},
	})
	h := NewExportHandler(svc)
	r := newTestRouter()
	r.POST("/exports/transcript", h.Transcript)
	r.GET("/exports/:token", h.Download)

	rec, env := performJSON(t, r, http.MethodPost, "/exports/transcript", dto.ExportRequest{
		Format: "csv",
		Snapshot: dto.SnapshotRequest{
			StudentName: "Lê Minh",
			Semesters: []dto.SemesterInput{{
				Name:     "Năm 1 - Học kỳ 1",
				Subjects: []dto.SubjectInput{{Name: "Toán", Credits: 3, Scores: dto.ScoreInput{Attendance: score(8), Process: score(8), Midterm: score(8), Final: score(8)}}},
			}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var result models.TranscriptExport
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.True(t, strings.HasPrefix(result.URL, "/exports/"))

	download := httptest.NewRecorder()
	r.ServeHTTP(download, httptest.NewRequest(http.MethodGet, result.URL, nil))
	require.Equal(t, http.StatusOK, download.Code)
	assert.Equal(t, "text/csv", download.Header().Get("Content-Type"))
	assert.Contains(t, download.Header().Get("Content-Disposition"), "Le_Minh_Transcript.csv")
	assert.Contains(t, download.Body.String(), "Toán,3,8.0,3.2,B+")

	rec, _ = performJSON(t, r, http.MethodGet, "/exports/forged.token.value.sig", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExportHandlerDisabled(t *testing.T) {
	h := NewExportHandler(service.NewExportService(service.ExportServiceParams{}))
	r := newTestRouter()
	r.POST("/exports/transcript", h.Transcript)

	rec, env := performJSON(t, r, http.MethodPost, "/exports/transcript", dto.ExportRequest{Format: "pdf"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "EXPORT_DISABLED", env.Error.Code)
}
