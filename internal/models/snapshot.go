package models

import "github.com/noah-isme/hub-grade-planner/pkg/grading"

// Snapshot is the complete planner state a client keeps locally and sends with every request.
type Snapshot struct {
	StudentName          string             `json:"student_name"`
	Cohort               string             `json:"cohort"`
	ProgramName          string             `json:"program_name"`
	MajorName            string             `json:"major_name"`
	SpecializationName   string             `json:"specialization_name"`
	Semesters            []grading.Semester `json:"semesters"`
	TargetGPA            float64            `json:"target_gpa"`
	TotalCreditsRequired int                `json:"total_credits_required"`
	HasOnboarded         bool               `json:"has_onboarded"`
}

// StudentProfile is the subset of snapshot fields a transcript can fill in.
type StudentProfile struct {
	StudentName string `json:"student_name,omitempty"`
	StudentCode string `json:"student_code,omitempty"`
	MajorName   string `json:"major_name,omitempty"`
}

// YearRange is one academic year found in a transcript, e.g. 2023-2024.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ParsedTranscript is the raw outcome of reading a transcript before it is merged.
type ParsedTranscript struct {
	Profile    StudentProfile     `json:"profile"`
	Semesters  []grading.Semester `json:"semesters"`
	YearRanges []YearRange        `json:"year_ranges"`
}
