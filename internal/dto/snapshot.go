package dto

import (
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
)

// ScoreInput carries the four raw component scores. A null component has not been entered.
type ScoreInput struct {
	Attendance *float64 `json:"attendance" validate:"omitempty,score10"`
	Process    *float64 `json:"process" validate:"omitempty,score10"`
	Midterm    *float64 `json:"midterm" validate:"omitempty,score10"`
	Final      *float64 `json:"final" validate:"omitempty,score10"`
}

// SubjectInput is one course row of a semester.
type SubjectInput struct {
	ID              string     `json:"id" validate:"max=100"`
	Name            string     `json:"name" validate:"max=200"`
	Credits         int        `json:"credits" validate:"min=0,max=30"`
	Scores          ScoreInput `json:"scores"`
	ExcludedFromGPA bool       `json:"excluded_from_gpa"`
}

// TermInput is the structured year/term tag of a semester.
type TermInput struct {
	Year         int    `json:"year" validate:"min=0,max=10"`
	Index        int    `json:"index" validate:"min=0,max=4"`
	Summer       bool   `json:"summer"`
	AcademicYear string `json:"academic_year" validate:"max=20"`
}

// SemesterInput is one semester of the snapshot.
type SemesterInput struct {
	ID            string         `json:"id" validate:"max=100"`
	Name          string         `json:"name" validate:"max=200"`
	Term          *TermInput     `json:"term"`
	Subjects      []SubjectInput `json:"subjects" validate:"max=60,dive"`
	TrainingScore *int           `json:"training_score" validate:"omitempty,min=0,max=100"`
}

// SnapshotRequest is the full planner state sent by the client.
type SnapshotRequest struct {
	StudentName          string          `json:"student_name" validate:"max=200"`
	Cohort               string          `json:"cohort" validate:"max=50"`
	ProgramName          string          `json:"program_name" validate:"max=200"`
	MajorName            string          `json:"major_name" validate:"max=200"`
	SpecializationName   string          `json:"specialization_name" validate:"max=200"`
	Semesters            []SemesterInput `json:"semesters" validate:"max=40,dive"`
	TargetGPA            float64         `json:"target_gpa" validate:"min=0,max=4"`
	TotalCreditsRequired int             `json:"total_credits_required" validate:"min=0,max=400"`
	HasOnboarded         bool            `json:"has_onboarded"`
}

// ToModel converts the validated request into the planner snapshot. A missing semester list
// stays nil so normalization can tell it apart from an emptied one.
func (r SnapshotRequest) ToModel() models.Snapshot {
	snapshot := models.Snapshot{
		StudentName:          r.StudentName,
		Cohort:               r.Cohort,
		ProgramName:          r.ProgramName,
		MajorName:            r.MajorName,
		SpecializationName:   r.SpecializationName,
		TargetGPA:            r.TargetGPA,
		TotalCreditsRequired: r.TotalCreditsRequired,
		HasOnboarded:         r.HasOnboarded,
	}
	if r.Semesters == nil {
		return snapshot
	}
	snapshot.Semesters = make([]grading.Semester, 0, len(r.Semesters))
	for _, sem := range r.Semesters {
		snapshot.Semesters = append(snapshot.Semesters, sem.ToModel())
	}
	return snapshot
}

// ToModel converts one semester.
func (s SemesterInput) ToModel() grading.Semester {
	sem := grading.Semester{
		ID:            s.ID,
		Name:          s.Name,
		Subjects:      make([]grading.Subject, 0, len(s.Subjects)),
		TrainingScore: copyInt(s.TrainingScore),
	}
	if s.Term != nil {
		sem.Term = &grading.Term{Year: s.Term.Year, Index: s.Term.Index, Summer: s.Term.Summer, AcademicYear: s.Term.AcademicYear}
	}
	for _, sub := range s.Subjects {
		sem.Subjects = append(sem.Subjects, sub.ToModel())
	}
	return sem
}

// ToModel converts one subject.
func (s SubjectInput) ToModel() grading.Subject {
	return grading.Subject{
		ID:              s.ID,
		Name:            s.Name,
		Credits:         s.Credits,
		Scores:          s.Scores.ToModel(),
		ExcludedFromGPA: s.ExcludedFromGPA,
	}
}

// ToModel converts the score components.
func (s ScoreInput) ToModel() grading.ScoreComponents {
	return grading.ScoreComponents{
		Attendance: copyFloat(s.Attendance),
		Process:    copyFloat(s.Process),
		Midterm:    copyFloat(s.Midterm),
		Final:      copyFloat(s.Final),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
