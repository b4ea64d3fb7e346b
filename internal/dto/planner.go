package dto

import (
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
)

// GradeSubjectRequest grades a single subject without a snapshot.
type GradeSubjectRequest struct {
	Scores          ScoreInput `json:"scores"`
	Credits         int        `json:"credits" validate:"min=0,max=30"`
	ExcludedFromGPA bool       `json:"excluded_from_gpa"`
}

// GradeSubjectResponse is the derived grade. Grade is nil until all four components exist.
type GradeSubjectResponse struct {
	Grade           *grading.GradeResult `json:"grade,omitempty"`
	Status          grading.Status       `json:"status"`
	ExcludedFromGPA bool                 `json:"excluded_from_gpa"`
}

// ForecastRequest asks for the average GPA needed on the remaining credits.
type ForecastRequest struct {
	CurrentGPA4          float64 `json:"current_gpa4" validate:"min=0,max=4"`
	PassedCredits        int     `json:"passed_credits" validate:"min=0"`
	TotalCreditsRequired int     `json:"total_credits_required" validate:"required,min=1"`
	TargetGPA            float64 `json:"target_gpa" validate:"min=0,max=4"`
}

// ForecastResponse reports the target forecast. Forecast is nil when no credits remain; in
// that case MeetsTarget compares the current GPA with the target directly.
type ForecastResponse struct {
	TargetGPA   float64                 `json:"target_gpa"`
	Forecast    *grading.TargetForecast `json:"forecast,omitempty"`
	Difficulty  grading.Difficulty      `json:"difficulty,omitempty"`
	Completed   bool                    `json:"completed"`
	MeetsTarget bool                    `json:"meets_target"`
}

// SummaryRequest asks for the dashboard of a snapshot.
type SummaryRequest struct {
	Snapshot       SnapshotRequest `json:"snapshot"`
	IncludeRanking bool            `json:"include_ranking"`
}

// SubjectSummary is one graded subject row.
type SubjectSummary struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Credits         int                  `json:"credits"`
	ExcludedFromGPA bool                 `json:"excluded_from_gpa"`
	Grade           *grading.GradeResult `json:"grade,omitempty"`
	Status          grading.Status       `json:"status"`
}

// SemesterSummary is the per-semester block of the dashboard.
type SemesterSummary struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Term              *grading.Term          `json:"term,omitempty"`
	Stats             grading.AggregateStats `json:"stats"`
	Classification    grading.Tier           `json:"classification,omitempty"`
	RegisteredCredits int                    `json:"registered_credits"`
	TrainingScore     *int                   `json:"training_score"`
	TrainingTier      grading.Tier           `json:"training_tier,omitempty"`
	Reward            grading.RewardTier     `json:"reward,omitempty"`
	Subjects          []SubjectSummary       `json:"subjects"`
	Ranking           *RankForecastResponse  `json:"ranking,omitempty"`
}

// YearSummary is one academic-year bucket.
type YearSummary struct {
	grading.YearStats
	Classification grading.Tier `json:"classification,omitempty"`
}

// SubjectHighlight points at the best graded subject.
type SubjectHighlight struct {
	SemesterID string  `json:"semester_id"`
	SubjectID  string  `json:"subject_id"`
	Name       string  `json:"name"`
	Average10  float64 `json:"average10"`
	Letter     string  `json:"letter"`
}

// SemesterHighlight points at the semester with the highest 4-point GPA.
type SemesterHighlight struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	GPA4 float64 `json:"gpa4"`
}

// SummaryResponse is the full dashboard computed from a snapshot.
type SummaryResponse struct {
	PolicyVersion        string                 `json:"policy_version"`
	Cumulative           grading.AggregateStats `json:"cumulative"`
	Classification       grading.Tier           `json:"classification,omitempty"`
	RegisteredCredits    int                    `json:"registered_credits"`
	TotalCreditsRequired int                    `json:"total_credits_required"`
	ProgressPercent      float64                `json:"progress_percent"`
	Semesters            []SemesterSummary      `json:"semesters"`
	Years                []YearSummary          `json:"years"`
	Trend                grading.Trend          `json:"trend"`
	Target               ForecastResponse       `json:"target"`
	HighestSubject       *SubjectHighlight      `json:"highest_subject,omitempty"`
	BestSemester         *SemesterHighlight     `json:"best_semester,omitempty"`
	LetterDistribution   map[string]int         `json:"letter_distribution"`
	AverageTrainingScore *int                   `json:"average_training_score,omitempty"`
	TrainingTier         grading.Tier           `json:"training_tier,omitempty"`
	FailedSubjects       int                    `json:"failed_subjects"`
	ScholarshipEligible  bool                   `json:"scholarship_eligible"`
}

// TranscriptImportRequest carries text extracted from the portal transcript PDF and the
// snapshot it should be merged into.
type TranscriptImportRequest struct {
	Text     string           `json:"text" validate:"required"`
	Snapshot *SnapshotRequest `json:"snapshot"`
}

// TranscriptImportResponse returns the merged snapshot.
type TranscriptImportResponse struct {
	Snapshot          models.Snapshot       `json:"snapshot"`
	Profile           models.StudentProfile `json:"profile"`
	ImportedSemesters int                   `json:"imported_semesters"`
	ImportedSubjects  int                   `json:"imported_subjects"`
	StartYear         int                   `json:"start_year"`
}
