package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
)

const sampleTranscript = "TRƯỜNG ĐẠI HỌC NGÂN HÀNG TP. HỒ CHÍ MINH\nKẾT QUẢ HỌC TẬP  SV. Trần Quốc Hoàng [Mã số: 030839230074] " +
	"Chương trình đào tạo: Kinh doanh quốc tế Kết quả: " +
	"Học kỳ 1 / 2023 - 2024 STT Mã học phần Tên học phần Số TC Loại Điểm " +
	"1 ITC301 Tin học ứng dụng 3 Bắt buộc 8,5 Chi tiết " +
	"2 FIN201 Tài chính tiền tệ 3 Bắt buộc 7,0 Chi tiết " +
	"3 GDTC01 Giáo dục thể chất 1 2 Bắt buộc 7 Chi tiết " +
	"4 ENG101 Tiếng Anh tăng cường 1 0 Tự chọn M Chi tiết " +
	"Điểm rèn luyện: 85 " +
	"Học kỳ 2 / 2023 - 2024 1 ECO102 Kinh tế vi mô 3 Bắt buộc 6,0 Chi tiết " +
	"Học kỳ 3 / 2023 - 2024 1 MKT201 Marketing căn bản 3 Bắt buộc 9 Chi tiết " +
	"Học kỳ 1 / 2024 - 2025 Điểm rèn luyện: 80"

type countingImports struct {
	ok, failed int
}

func (c *countingImports) RecordImport(ok bool) {
	if ok {
		c.ok++
		return
	}
	c.failed++
}

func newTestImportService(metrics importRecorder) *ImportService {
	svc := NewImportService(ImportServiceParams{
		Planner: NewPlannerService(PlannerServiceParams{}),
		Metrics: metrics,
	})
	svc.now = func() time.Time { return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestImportParseProfileAndSemesters(t *testing.T) {
	svc := newTestImportService(nil)

	parsed := svc.Parse(sampleTranscript)

	assert.Equal(t, "Trần Quốc Hoàng", parsed.Profile.StudentName)
	assert.Equal(t, "030839230074", parsed.Profile.StudentCode)
	assert.Equal(t, "Kinh doanh quốc tế", parsed.Profile.MajorName)
	require.Len(t, parsed.YearRanges, 2)
	assert.Equal(t, 2024, parsed.YearRanges[1].Start)

	require.Len(t, parsed.Semesters, 3)
	first := parsed.Semesters[0]
	assert.Equal(t, "imported_2023_2024_hk1", first.ID)
	assert.Equal(t, "Năm học 2023-2024 - Học kỳ 1", first.Name)
	assert.Equal(t, 1, first.Term.Year)
	require.NotNil(t, first.TrainingScore)
	assert.Equal(t, 85, *first.TrainingScore)

	require.Len(t, first.Subjects, 4)
	ict := first.Subjects[0]
	assert.Equal(t, "ITC301_0_0", ict.ID)
	assert.Equal(t, "Tin học ứng dụng", ict.Name)
	assert.Equal(t, 3, ict.Credits)
	require.NotNil(t, ict.Scores.Final)
	assert.InDelta(t, 8.5, *ict.Scores.Final, 1e-9)
	assert.InDelta(t, 8.5, *ict.Scores.Attendance, 1e-9)
	assert.False(t, ict.ExcludedFromGPA)

	pe := first.Subjects[2]
	assert.Equal(t, "Giáo dục thể chất 1", pe.Name)
	assert.Equal(t, 2, pe.Credits)
	assert.True(t, pe.ExcludedFromGPA)

	english := first.Subjects[3]
	assert.Equal(t, 0, english.Credits)
	assert.True(t, english.ExcludedFromGPA)
	assert.Nil(t, english.Scores.Final)

	assert.Nil(t, parsed.Semesters[1].TrainingScore)
	assert.Equal(t, "ECO102_1_0", parsed.Semesters[1].Subjects[0].ID)

	summer := parsed.Semesters[2]
	assert.Equal(t, "imported_2023_2024_hk3", summer.ID)
	assert.True(t, summer.IsSummer())
}

func TestImportMergesIntoTemplateTimeline(t *testing.T) {
	metrics := &countingImports{}
	svc := newTestImportService(metrics)

	resp, err := svc.Import(context.Background(), dto.TranscriptImportRequest{Text: sampleTranscript})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.ImportedSemesters)
	assert.Equal(t, 6, resp.ImportedSubjects)
	assert.Equal(t, 2023, resp.StartYear)
	assert.Equal(t, 1, metrics.ok)

	snapshot := resp.Snapshot
	assert.True(t, snapshot.HasOnboarded)
	assert.Equal(t, "Trần Quốc Hoàng", snapshot.StudentName)
	assert.Equal(t, 125, snapshot.TotalCreditsRequired)
	require.Len(t, snapshot.Semesters, 9)

	ids := make([]string, 0, len(snapshot.Semesters))
	for _, sem := range snapshot.Semesters {
		ids = append(ids, sem.ID)
	}
	assert.Equal(t, []string{
		"imported_2023_2024_hk1",
		"imported_2023_2024_hk2",
		"imported_2023_2024_hk3",
		"generated_2024_hk1",
		"generated_2024_hk2",
		"generated_2025_hk1",
		"generated_2025_hk2",
		"generated_2026_hk1",
		"generated_2026_hk2",
	}, ids)
	assert.Equal(t, "Năm học 2024-2025 - Học kỳ 1", snapshot.Semesters[3].Name)
	assert.Equal(t, 2, snapshot.Semesters[3].Term.Year)
	assert.NotNil(t, snapshot.Semesters[3].Subjects)
}

func TestImportKeepsExistingProfile(t *testing.T) {
	svc := newTestImportService(nil)

	resp, err := svc.Import(context.Background(), dto.TranscriptImportRequest{
		Text:     sampleTranscript,
		Snapshot: &dto.SnapshotRequest{StudentName: "Hoàng", TargetGPA: 3.6, TotalCreditsRequired: 130},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hoàng", resp.Snapshot.StudentName)
	assert.Equal(t, "Kinh doanh quốc tế", resp.Snapshot.MajorName)
	assert.Equal(t, 3.6, resp.Snapshot.TargetGPA)
	assert.Equal(t, 130, resp.Snapshot.TotalCreditsRequired)
}

func TestImportRejectsTextWithoutSemesters(t *testing.T) {
	metrics := &countingImports{}
	svc := newTestImportService(metrics)

	_, err := svc.Import(context.Background(), dto.TranscriptImportRequest{Text: "Không có dữ liệu"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrImportEmpty.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, metrics.failed)

	_, err = svc.Import(context.Background(), dto.TranscriptImportRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportWithoutYearsStartsThisYear(t *testing.T) {
	svc := newTestImportService(nil)
	merged := svc.Merge(svc.planner.Template(), svc.Parse("nothing here"))

	require.Len(t, merged.Semesters, 8)
	assert.Equal(t, "generated_2025_hk1", merged.Semesters[0].ID)
}
