package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
	"github.com/noah-isme/hub-grade-planner/pkg/export"
	"github.com/noah-isme/hub-grade-planner/pkg/storage"
)

type capturingPDF struct {
	doc export.Document
}

func (c *capturingPDF) RenderDocument(doc export.Document) ([]byte, error) {
	c.doc = doc
	return []byte("%PDF-test"), nil
}

func newTestExportService(t *testing.T, pdf documentRenderer) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(ExportServiceParams{
		Planner: NewPlannerService(PlannerServiceParams{}),
		Storage: store,
		Signer:  storage.NewSignedURLSigner("secret", time.Hour),
		PDF:     pdf,
		Config:  ExportConfig{Enabled: true, APIPrefix: "/api/v1/"},
	})
	svc.now = func() time.Time { return time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC) }
	return svc
}

func exportSnapshot() dto.SnapshotRequest {
	return dto.SnapshotRequest{
		StudentName:          "Trần Quốc Hoàng",
		MajorName:            "Kinh doanh quốc tế",
		TargetGPA:            3.2,
		TotalCreditsRequired: 120,
		Semesters: []dto.SemesterInput{
			{
				ID:            "y1_hk1",
				Name:          "Năm 1 - Học kỳ 1",
				TrainingScore: intPtr(85),
				Subjects: []dto.SubjectInput{
					subjectInput("a", 3, 9),
					{ID: "pe", Name: "pe", Credits: 2, ExcludedFromGPA: true, Scores: uniformInput(7)},
					{ID: "open", Name: "open", Credits: 3},
				},
			},
			{ID: "y1_hk2", Name: "Năm 1 - Học kỳ 2"},
		},
	}
}

func TestExportTranscriptCSV(t *testing.T) {
	svc := newTestExportService(t, nil)

	result, err := svc.Transcript(context.Background(), dto.ExportRequest{Snapshot: exportSnapshot(), Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, result.Format)
	assert.Equal(t, "Tran_Quoc_Hoang_Transcript.csv", result.Filename)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/"))

	token := strings.TrimPrefix(result.URL, "/api/v1/exports/")
	file, err := svc.Download(token)
	require.NoError(t, err)
	defer file.Body.Close()
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, result.Filename, file.Filename)

	body, err := io.ReadAll(file.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Hoc ky,STT,Mon hoc,TC,Diem (10),Diem (4),Chu", lines[0])
	assert.Equal(t, "Năm 1 - Học kỳ 1,1,a,3,9.0,3.7,A", lines[1])
	assert.Equal(t, "Năm 1 - Học kỳ 1,2,pe (*),2,7.0,2.8,B-", lines[2])
	assert.Equal(t, "Năm 1 - Học kỳ 1,3,open,3,-,-,-", lines[3])
}

func TestExportTranscriptPDFLayout(t *testing.T) {
	pdf := &capturingPDF{}
	svc := newTestExportService(t, pdf)

	result, err := svc.Transcript(context.Background(), dto.ExportRequest{Snapshot: exportSnapshot(), Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Tran_Quoc_Hoang_Transcript.pdf", result.Filename)

	doc := pdf.doc
	assert.Equal(t, transcriptTitle, doc.Title)
	assert.Equal(t, "Ngay xuat: 30/06/2025", doc.Subtitle)
	assert.Equal(t, transcriptFooter, doc.Footer)
	assert.Equal(t, "GPA (He 4): 3.70  |  GPA (He 10): 9.00  |  Tin chi tich luy: 3/120", doc.Headline)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Năm 1 - Học kỳ 1", doc.Sections[0].Heading)
	assert.Equal(t, "GPA(4): 3.70  |  GPA(10): 9.00  |  DRL: 85", doc.Sections[0].Summary)
	assert.Len(t, doc.Sections[0].Data.Rows, 3)

	file, err := svc.Download(strings.TrimPrefix(result.URL, "/api/v1/exports/"))
	require.NoError(t, err)
	defer file.Body.Close()
	assert.Equal(t, "application/pdf", file.ContentType)
	body, _ := io.ReadAll(file.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestExportRejectsBadRequests(t *testing.T) {
	svc := newTestExportService(t, nil)

	_, err := svc.Transcript(context.Background(), dto.ExportRequest{Snapshot: exportSnapshot(), Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Download("not.a.valid.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTokenInvalid.Code, appErrors.FromError(err).Code)

	disabled := NewExportService(ExportServiceParams{Planner: NewPlannerService(PlannerServiceParams{})})
	_, err = disabled.Transcript(context.Background(), dto.ExportRequest{Format: "csv"})
	assert.ErrorIs(t, err, appErrors.ErrExportDisabled)
	assert.Zero(t, disabled.Cleanup())
}

func TestExportCleanupRemovesExpiredFiles(t *testing.T) {
	svc := newTestExportService(t, nil)
	_, err := svc.Transcript(context.Background(), dto.ExportRequest{Snapshot: exportSnapshot(), Format: "csv"})
	require.NoError(t, err)

	svc.cfg.ResultTTL = time.Hour
	assert.Equal(t, 0, svc.Cleanup())

	svc.cfg.ResultTTL = -time.Minute
	assert.Equal(t, 1, svc.Cleanup())
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
	assert.Len(t, sanitizeFilename(strings.Repeat("x", 150)), 100)
}
