package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
	"github.com/noah-isme/hub-grade-planner/pkg/textnorm"
)

// Portal transcripts arrive as one long line of text. A subject row reads
// "STT CODE Name Credits Type Score" and ends at the "Chi tiết" link.
var (
	transcriptSpace = regexp.MustCompile(`[\s\x{00A0}\x{00AD}]+`)
	studentPattern  = regexp.MustCompile(`(?i)(?:SV\.|Sinh viên)?\s*([^\s].+?)\s*\[Mã số:\s*(\d+)\]`)
	studentPrefix   = regexp.MustCompile(`(?i)^.*(?:SV\.|Sinh viên)[\s:]*`)
	programPattern  = regexp.MustCompile(`(?i)Chương trình đào tạo:\s*(.+?)\s+(?:Kết quả:|Năm học:|Học kỳ:)`)
	semesterHeader  = regexp.MustCompile(`(?i)Học kỳ\s+(\d)\s*/\s*(\d{4})\s*-\s*(\d{4})`)
	rowDelimiter    = regexp.MustCompile(`(?i)Chi\s*ti.t`)
	subjectRow      = regexp.MustCompile(`(?i)(\d+)\s*([A-Z][A-Z0-9_.-]*\d[A-Z0-9_.-]*)\s+(.+?)\s+(\d{1,2})\s+([^\d\s][^\d]*?)\s*(\d+(?:[.,]\d+)?)?([^\d]*)$`)
	exemptMarker    = regexp.MustCompile(`(?:^|\s)M(?:\s|$)`)
	trainingPattern = regexp.MustCompile(`(?i)Điểm rèn luyện\s*[^0-9]*\s*(\d+)`)
)

// Subjects whose names contain one of these never count towards the GPA.
var nonGPAKeywords = []string{
	"GDTC",
	"Giáo dục thể chất",
	"Quốc phòng",
	"An ninh",
	"Tiếng Anh tăng cường",
	"Kỹ năng giao tiếp và thuyết trình",
	"Kỹ năng thuyết trình và chinh phục đối tác",
	"Kỹ năng lãnh đạo và làm việc nhóm",
	"Kỹ năng phân tích và giải quyết vấn đề",
}

type snapshotSource interface {
	Normalize(ctx context.Context, req dto.SnapshotRequest) (*models.Snapshot, error)
	Template() models.Snapshot
}

type importRecorder interface {
	RecordImport(ok bool)
}

// ImportServiceParams groups constructor dependencies.
type ImportServiceParams struct {
	Planner   snapshotSource
	Metrics   importRecorder
	Years     int
	MaxBytes  int
	Validator *validator.Validate
	Logger    *zap.Logger
}

// ImportService reads the text of a portal transcript and merges it into a snapshot.
type ImportService struct {
	planner   snapshotSource
	metrics   importRecorder
	years     int
	maxBytes  int
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewImportService constructs an ImportService.
func NewImportService(params ImportServiceParams) *ImportService {
	years := params.Years
	if years <= 0 {
		years = 4
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		planner:   params.Planner,
		metrics:   params.Metrics,
		years:     years,
		maxBytes:  params.MaxBytes,
		validator: newValidator(params.Validator),
		logger:    logger,
		now:       time.Now,
	}
}

// Import parses req.Text and merges the result into req.Snapshot, or into the blank template
// when no snapshot is sent.
func (s *ImportService) Import(ctx context.Context, req dto.TranscriptImportRequest) (*dto.TranscriptImportResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}
	if s.maxBytes > 0 && len(req.Text) > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("transcript text exceeds %d bytes", s.maxBytes))
	}

	parsed := s.Parse(req.Text)
	if len(parsed.Semesters) == 0 {
		s.record(false)
		return nil, appErrors.ErrImportEmpty
	}

	var existing models.Snapshot
	if req.Snapshot != nil {
		normalized, err := s.planner.Normalize(ctx, *req.Snapshot)
		if err != nil {
			return nil, err
		}
		existing = *normalized
	} else {
		existing = s.planner.Template()
	}

	merged, start := s.merge(existing, parsed)
	subjects := 0
	for _, sem := range parsed.Semesters {
		subjects += len(sem.Subjects)
	}
	s.record(true)
	s.logger.Info("transcript imported",
		zap.Int("semesters", len(parsed.Semesters)),
		zap.Int("subjects", subjects),
		zap.Int("start_year", start),
	)
	return &dto.TranscriptImportResponse{
		Snapshot:          merged,
		Profile:           parsed.Profile,
		ImportedSemesters: len(parsed.Semesters),
		ImportedSubjects:  subjects,
		StartYear:         start,
	}, nil
}

func (s *ImportService) record(ok bool) {
	if s.metrics != nil {
		s.metrics.RecordImport(ok)
	}
}

// Parse extracts the profile and graded semesters from transcript text. Each row carries one
// overall score, which is copied into all four components so the weighted average equals it.
func (s *ImportService) Parse(text string) models.ParsedTranscript {
	text = strings.TrimSpace(transcriptSpace.ReplaceAllString(text, " "))
	result := models.ParsedTranscript{Profile: parseProfile(text)}

	headers := semesterHeader.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := text[loc[0]:end]
		index := atoi(text[loc[2]:loc[3]])
		start := atoi(text[loc[4]:loc[5]])
		finish := atoi(text[loc[6]:loc[7]])

		if !hasYearRange(result.YearRanges, start) {
			result.YearRanges = append(result.YearRanges, models.YearRange{Start: start, End: finish})
		}

		subjects := parseSubjects(block, i)
		if len(subjects) == 0 {
			continue
		}
		result.Semesters = append(result.Semesters, grading.Semester{
			ID:            fmt.Sprintf("imported_%d_%d_hk%d", start, finish, index),
			Name:          fmt.Sprintf("Năm học %d-%d - Học kỳ %d", start, finish, index),
			Term:          &grading.Term{Index: index, Summer: index >= 3, AcademicYear: fmt.Sprintf("%d-%d", start, finish)},
			Subjects:      subjects,
			TrainingScore: parseTrainingScore(block),
		})
	}

	base := startYear(result.YearRanges, s.now())
	for i := range result.Semesters {
		if y, _, ok := parseYearPair(result.Semesters[i].Term.AcademicYear); ok {
			result.Semesters[i].Term.Year = y - base + 1
		}
	}
	return result
}

func parseProfile(text string) models.StudentProfile {
	var profile models.StudentProfile
	if m := studentPattern.FindStringSubmatch(text); m != nil {
		profile.StudentName = strings.TrimSpace(studentPrefix.ReplaceAllString(m[1], ""))
		profile.StudentCode = m[2]
	}
	if m := programPattern.FindStringSubmatch(text); m != nil {
		profile.MajorName = strings.TrimSpace(m[1])
	}
	return profile
}

func parseSubjects(block string, blockIndex int) []grading.Subject {
	subjects := []grading.Subject{}
	for _, segment := range rowDelimiter.Split(block, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		m := subjectRow.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[3])
		credits := atoi(m[4])
		score, excluded := parseRowScore(m[6], m[5]+m[7])
		if credits == 0 || isNonGPASubject(name) {
			excluded = true
		}

		sub := grading.Subject{
			ID:              fmt.Sprintf("%s_%d_%d", m[2], blockIndex, len(subjects)),
			Name:            name,
			Credits:         credits,
			ExcludedFromGPA: excluded,
		}
		if score != nil {
			sub.Scores = grading.Uniform(*score)
		}
		subjects = append(subjects, sub)
	}
	return subjects
}

// parseRowScore reads a decimal-comma score. A bare "M" after the credits marks an exempted
// subject; scores outside 0-10 are dropped.
func parseRowScore(raw, tail string) (*float64, bool) {
	if raw == "" {
		return nil, exemptMarker.MatchString(tail)
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || v < 0 || v > 10 {
		return nil, false
	}
	return &v, false
}

func isNonGPASubject(name string) bool {
	for _, kw := range nonGPAKeywords {
		if textnorm.ContainsFold(name, kw) {
			return true
		}
	}
	return false
}

func parseTrainingScore(block string) *int {
	m := trainingPattern.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v > 100 {
		return nil
	}
	return &v
}

func hasYearRange(ranges []models.YearRange, start int) bool {
	for _, r := range ranges {
		if r.Start == start {
			return true
		}
	}
	return false
}

func startYear(ranges []models.YearRange, now time.Time) int {
	if len(ranges) == 0 {
		return now.Year()
	}
	start := ranges[0].Start
	for _, r := range ranges[1:] {
		if r.Start < start {
			start = r.Start
		}
	}
	return start
}

// Merge keeps the profile fields already filled in, takes the rest from the transcript and
// replaces the semester list with the reconstructed timeline.
func (s *ImportService) Merge(existing models.Snapshot, parsed models.ParsedTranscript) models.Snapshot {
	merged, _ := s.merge(existing, parsed)
	return merged
}

func (s *ImportService) merge(existing models.Snapshot, parsed models.ParsedTranscript) (models.Snapshot, int) {
	merged := existing
	if strings.TrimSpace(merged.StudentName) == "" {
		merged.StudentName = parsed.Profile.StudentName
	}
	if strings.TrimSpace(merged.MajorName) == "" {
		merged.MajorName = parsed.Profile.MajorName
	}
	start := startYear(parsed.YearRanges, s.now())
	merged.Semesters = s.reconstruct(parsed.Semesters, start)
	merged.HasOnboarded = true
	return merged, start
}

// reconstruct lays imported semesters onto the programme timeline: both regular terms of
// every year exist, generated empty when the transcript lacks them, extra terms of a year
// follow its regular ones and anything outside the programme years goes last.
func (s *ImportService) reconstruct(imported []grading.Semester, start int) []grading.Semester {
	byID := make(map[string]grading.Semester, len(imported))
	for _, sem := range imported {
		byID[sem.ID] = sem
	}
	used := make(map[string]bool, len(imported))
	timeline := make([]grading.Semester, 0, s.years*2+len(imported))

	for i := 0; i < s.years; i++ {
		from, to := start+i, start+i+1
		academic := fmt.Sprintf("%d-%d", from, to)
		for term := 1; term <= 2; term++ {
			id := fmt.Sprintf("imported_%d_%d_hk%d", from, to, term)
			if sem, ok := byID[id]; ok {
				timeline = append(timeline, sem)
				used[id] = true
				continue
			}
			timeline = append(timeline, grading.Semester{
				ID:       fmt.Sprintf("generated_%d_hk%d", from, term),
				Name:     fmt.Sprintf("Năm học %s - Học kỳ %d", academic, term),
				Term:     &grading.Term{Year: i + 1, Index: term, AcademicYear: academic},
				Subjects: []grading.Subject{},
			})
		}
		prefix := fmt.Sprintf("imported_%d_%d", from, to)
		for _, sem := range imported {
			if used[sem.ID] || !strings.HasPrefix(sem.ID, prefix) {
				continue
			}
			timeline = append(timeline, sem)
			used[sem.ID] = true
		}
	}
	for _, sem := range imported {
		if !used[sem.ID] {
			timeline = append(timeline, sem)
			used[sem.ID] = true
		}
	}
	return timeline
}
