package grading

// ScoreComponents are the four raw 10-point scores of a subject. A nil component has not
// been entered yet.
type ScoreComponents struct {
	Attendance *float64 `json:"attendance"`
	Process    *float64 `json:"process"`
	Midterm    *float64 `json:"midterm"`
	Final      *float64 `json:"final"`
}

// Complete reports whether all four components are present.
func (s ScoreComponents) Complete() bool {
	return s.Attendance != nil && s.Process != nil && s.Midterm != nil && s.Final != nil
}

// Uniform returns components that all carry the same score. Transcript imports use it when
// only the overall score is known.
func Uniform(score float64) ScoreComponents {
	a, p, m, f := score, score, score, score
	return ScoreComponents{Attendance: &a, Process: &p, Midterm: &m, Final: &f}
}

// Subject is one course inside a semester. Excluded subjects (physical education, defence
// education and similar) count toward the registered load but never toward a GPA.
type Subject struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Credits         int             `json:"credits"`
	Scores          ScoreComponents `json:"scores"`
	ExcludedFromGPA bool            `json:"excluded_from_gpa"`
}

// Status is the pass/fail standing of a single subject.
type Status string

const (
	StatusUnknown Status = "UNKNOWN"
	StatusFail    Status = "FAIL"
	StatusImprove Status = "IMPROVE"
	StatusPass    Status = "PASS"
)

// GradeResult is the derived grade of a subject.
type GradeResult struct {
	Average10 float64 `json:"average10"`
	Scale4    float64 `json:"scale4"`
	Letter    string  `json:"letter"`
}

// SubjectAverage computes the weighted average using DefaultPolicy.
func SubjectAverage(s ScoreComponents) (float64, bool) {
	return DefaultPolicy.SubjectAverage(s)
}

// SubjectStatus classifies an average using DefaultPolicy.
func SubjectStatus(average10 float64, ok bool) Status {
	return DefaultPolicy.SubjectStatus(average10, ok)
}

// Grade derives the full grade of a subject using DefaultPolicy.
func Grade(s Subject) (GradeResult, bool) {
	return DefaultPolicy.Grade(s)
}

// SubjectAverage returns the weighted average rounded to one decimal. ok is false until every
// component is present.
func (p Policy) SubjectAverage(s ScoreComponents) (float64, bool) {
	if !s.Complete() {
		return 0, false
	}
	w := p.Weights
	avg := *s.Attendance*w.Attendance + *s.Process*w.Process + *s.Midterm*w.Midterm + *s.Final*w.Final
	return round1(avg), true
}

// SubjectStatus maps an average onto FAIL, IMPROVE or PASS. An absent average is UNKNOWN.
func (p Policy) SubjectStatus(average10 float64, ok bool) Status {
	switch {
	case !ok:
		return StatusUnknown
	case average10 < p.PassThreshold:
		return StatusFail
	case average10 < p.ImproveThreshold:
		return StatusImprove
	default:
		return StatusPass
	}
}

// Grade derives average, letter and 4-point value of a subject.
func (p Policy) Grade(s Subject) (GradeResult, bool) {
	avg, ok := p.SubjectAverage(s.Scores)
	if !ok {
		return GradeResult{}, false
	}
	details := p.GradeDetailsFor(avg)
	return GradeResult{Average10: avg, Scale4: details.Scale4, Letter: details.Letter}, true
}
