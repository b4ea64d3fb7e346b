package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/service"
)

func TestImportHandlerTranscript(t *testing.T) {
	svc := service.NewImportService(service.ImportServiceParams{
		Planner: service.NewPlannerService(service.PlannerServiceParams{}),
	})
	r := newTestRouter()
	r.POST("/imports/transcript", NewImportHandler(svc).Transcript)

	text := "SV. Nguyễn Văn An [Mã số: 030100] Học kỳ 1 / 2024 - 2025 " +
		"1 ITC301 Tin học ứng dụng 3 Bắt buộc 8,0 Chi tiết Điểm rèn luyện: 90"
	rec, env := performJSON(t, r, http.MethodPost, "/imports/transcript", dto.TranscriptImportRequest{Text: text})
	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.TranscriptImportResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "Nguyễn Văn An", result.Snapshot.StudentName)
	assert.Equal(t, 1, result.ImportedSemesters)
	assert.Equal(t, "imported_2024_2025_hk1", result.Snapshot.Semesters[0].ID)

	rec, env = performJSON(t, r, http.MethodPost, "/imports/transcript", dto.TranscriptImportRequest{Text: "trống"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "IMPORT_EMPTY", env.Error.Code)
}
