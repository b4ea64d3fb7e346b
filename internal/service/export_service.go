package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
	"github.com/noah-isme/hub-grade-planner/pkg/export"
	"github.com/noah-isme/hub-grade-planner/pkg/storage"
	"github.com/noah-isme/hub-grade-planner/pkg/textnorm"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (io.ReadCloser, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentRenderer interface {
	RenderDocument(doc export.Document) ([]byte, error)
}

type transcriptSource interface {
	Normalize(ctx context.Context, req dto.SnapshotRequest) (*models.Snapshot, error)
	Summarize(ctx context.Context, snapshot models.Snapshot, includeRanking bool) *dto.SummaryResponse
}

const (
	transcriptTitle  = "BANG KET QUA HOC TAP - HUB PLANNER"
	transcriptFooter = "Tao boi HUB Grade Planner"
)

var transcriptColumns = []string{"STT", "Mon hoc", "TC", "Diem (10)", "Diem (4)", "Chu"}

var transcriptWidths = []float64{15, 90, 15, 25, 25, 20}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled         bool
	APIPrefix       string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportServiceParams groups the export dependencies.
type ExportServiceParams struct {
	Planner   transcriptSource
	Storage   fileStorage
	Signer    *storage.SignedURLSigner
	CSV       csvRenderer
	PDF       documentRenderer
	Config    ExportConfig
	Validator *validator.Validate
	Logger    *zap.Logger
}

// ExportFile is an opened export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// ExportService renders transcripts to CSV or PDF and hands out signed download links.
type ExportService struct {
	planner   transcriptSource
	storage   fileStorage
	signer    *storage.SignedURLSigner
	csv       csvRenderer
	pdf       documentRenderer
	cfg       ExportConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		planner:   params.Planner,
		storage:   params.Storage,
		signer:    params.Signer,
		csv:       csv,
		pdf:       pdf,
		cfg:       cfg,
		validator: newValidator(params.Validator),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ExportService) enabled() bool {
	return s != nil && s.cfg.Enabled && s.storage != nil && s.signer != nil
}

// Transcript renders the snapshot, stores the file and returns a signed link to it.
func (s *ExportService) Transcript(ctx context.Context, req dto.ExportRequest) (*models.TranscriptExport, error) {
	if !s.enabled() {
		return nil, appErrors.ErrExportDisabled
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	snapshot, err := s.planner.Normalize(ctx, req.Snapshot)
	if err != nil {
		return nil, err
	}
	summary := s.planner.Summarize(ctx, *snapshot, false)
	format := models.ExportFormat(req.Format)

	var data []byte
	switch format {
	case models.ExportFormatPDF:
		data, err = s.pdf.RenderDocument(s.transcriptDocument(*snapshot, summary))
	default:
		data, err = s.csv.Render(transcriptDataset(summary))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}

	id := uuid.NewString()
	filename := buildFilename(id, snapshot.StudentName, format)
	relPath, err := s.storage.Save(filename, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store transcript")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
	}

	s.logger.Info("transcript exported",
		zap.String("export_id", id),
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)),
	)
	return &models.TranscriptExport{
		ID:        id,
		Format:    format,
		Filename:  downloadName(snapshot.StudentName, format),
		URL:       s.downloadURL(token),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *ExportService) downloadURL(token string) string {
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	return prefix + "/exports/" + token
}

// Download opens the file a signed token points to.
func (s *ExportService) Download(token string) (*ExportFile, error) {
	if !s.enabled() {
		return nil, appErrors.ErrExportDisabled
	}
	id, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTokenInvalid.Code, appErrors.ErrTokenInvalid.Status, appErrors.ErrTokenInvalid.Message)
	}
	body, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found or already removed")
	}
	format := models.ExportFormat(strings.TrimPrefix(path.Ext(relPath), "."))
	name := strings.TrimPrefix(path.Base(relPath), id+"_")
	return &ExportFile{Filename: name, ContentType: format.ContentType(), Body: body}, nil
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ExportService) StartCleanup(ctx context.Context) {
	if !s.enabled() || s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Cleanup removes files older than the result TTL and returns how many were deleted.
func (s *ExportService) Cleanup() int {
	if !s.enabled() {
		return 0
	}
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Sugar().Warnw("export cleanup failed", "error", err)
	}
	if len(removed) > 0 {
		s.logger.Sugar().Infow("expired exports removed", "count", len(removed))
	}
	return len(removed)
}

func transcriptDataset(summary *dto.SummaryResponse) export.Dataset {
	headers := append([]string{"Hoc ky"}, transcriptColumns...)
	rows := make([]map[string]string, 0)
	for _, sem := range summary.Semesters {
		for _, row := range subjectRows(sem) {
			row["Hoc ky"] = sem.Name
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func (s *ExportService) transcriptDocument(snapshot models.Snapshot, summary *dto.SummaryResponse) export.Document {
	cum := summary.Cumulative
	doc := export.Document{
		Title:    transcriptTitle,
		Subtitle: "Ngay xuat: " + s.now().Format("02/01/2006"),
		Fields: []export.Field{
			{Label: "Ho va ten", Value: snapshot.StudentName},
			{Label: "Nganh", Value: snapshot.MajorName},
			{Label: "Ma so / Khoa", Value: snapshot.Cohort},
			{Label: "Chuyen nganh", Value: snapshot.SpecializationName},
			{Label: "Chuong trinh", Value: snapshot.ProgramName},
		},
		Headline: fmt.Sprintf("GPA (He 4): %.2f  |  GPA (He 10): %.2f  |  Tin chi tich luy: %d/%d",
			cum.GPA4, cum.GPA10, cum.PassedCredits, snapshot.TotalCreditsRequired),
		Footer: transcriptFooter,
	}
	for _, sem := range summary.Semesters {
		if len(sem.Subjects) == 0 {
			continue
		}
		drl := "-"
		if sem.TrainingScore != nil {
			drl = strconv.Itoa(*sem.TrainingScore)
		}
		doc.Sections = append(doc.Sections, export.Section{
			Heading: sem.Name,
			Summary: fmt.Sprintf("GPA(4): %.2f  |  GPA(10): %.2f  |  DRL: %s", sem.Stats.GPA4, sem.Stats.GPA10, drl),
			Data:    export.Dataset{Headers: transcriptColumns, Rows: subjectRows(sem)},
			Widths:  transcriptWidths,
		})
	}
	return doc
}

func subjectRows(sem dto.SemesterSummary) []map[string]string {
	rows := make([]map[string]string, 0, len(sem.Subjects))
	for i, sub := range sem.Subjects {
		name := sub.Name
		if sub.ExcludedFromGPA {
			name += " (*)"
		}
		avg, scale, letter := "-", "-", "-"
		if sub.Grade != nil {
			avg = strconv.FormatFloat(sub.Grade.Average10, 'f', 1, 64)
			scale = strconv.FormatFloat(sub.Grade.Scale4, 'f', 1, 64)
			letter = sub.Grade.Letter
		}
		rows = append(rows, map[string]string{
			"STT":       strconv.Itoa(i + 1),
			"Mon hoc":   name,
			"TC":        strconv.Itoa(sub.Credits),
			"Diem (10)": avg,
			"Diem (4)":  scale,
			"Chu":       letter,
		})
	}
	return rows
}

func downloadName(student string, format models.ExportFormat) string {
	base := sanitizeFilename(strings.Join(strings.Fields(textnorm.StripDiacritics(student)), "_"))
	return fmt.Sprintf("%s_Transcript.%s", base, format)
}

func buildFilename(id, student string, format models.ExportFormat) string {
	return id + "_" + downloadName(student, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
