package grading

import (
	"fmt"
	"sort"
	"strconv"
)

// Term is the structured position of a semester inside the programme. Year is the 1-based
// programme year; Index is the term number within that year.
type Term struct {
	Year         int    `json:"year"`
	Index        int    `json:"index"`
	Summer       bool   `json:"summer"`
	AcademicYear string `json:"academic_year,omitempty"`
}

// Semester is an ordered list of subjects plus the optional training (conduct) score.
type Semester struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Term          *Term     `json:"term,omitempty"`
	Subjects      []Subject `json:"subjects"`
	TrainingScore *int      `json:"training_score"`
}

// IsSummer reports whether the semester is tagged as a summer term.
func (s Semester) IsSummer() bool {
	return s.Term != nil && s.Term.Summer
}

// AggregateStats summarises any collection of subjects.
type AggregateStats struct {
	GPA10                 float64 `json:"gpa10"`
	GPA4                  float64 `json:"gpa4"`
	TotalCreditsWithGrade int     `json:"total_credits_with_grade"`
	PassedCredits         int     `json:"passed_credits"`
	HasData               bool    `json:"has_data"`
}

// Aggregate summarises subjects using DefaultPolicy.
func Aggregate(subjects []Subject) AggregateStats {
	return DefaultPolicy.Aggregate(subjects)
}

// SemesterStats summarises one semester using DefaultPolicy.
func SemesterStats(sem Semester) AggregateStats {
	return DefaultPolicy.Aggregate(sem.Subjects)
}

// CumulativeStats summarises every semester together using DefaultPolicy.
func CumulativeStats(semesters []Semester) AggregateStats {
	return DefaultPolicy.CumulativeStats(semesters)
}

// Aggregate is the one credit-weighted summariser behind semester, year and cumulative
// statistics. Excluded subjects and subjects without a complete score are skipped.
func (p Policy) Aggregate(subjects []Subject) AggregateStats {
	var (
		credits    int
		passed     int
		weighted10 float64
		weighted4  float64
	)
	for _, sub := range subjects {
		if sub.ExcludedFromGPA {
			continue
		}
		grade, ok := p.Grade(sub)
		if !ok {
			continue
		}
		credits += sub.Credits
		weighted10 += grade.Average10 * float64(sub.Credits)
		weighted4 += grade.Scale4 * float64(sub.Credits)
		if grade.Average10 >= p.PassThreshold {
			passed += sub.Credits
		}
	}
	if credits == 0 {
		return AggregateStats{}
	}
	return AggregateStats{
		GPA10:                 round1(weighted10 / float64(credits)),
		GPA4:                  round1(weighted4 / float64(credits)),
		TotalCreditsWithGrade: credits,
		PassedCredits:         passed,
		HasData:               true,
	}
}

// CumulativeStats aggregates the subjects of every semester.
func (p Policy) CumulativeStats(semesters []Semester) AggregateStats {
	return p.Aggregate(flatten(semesters))
}

// RegisteredCredits sums the credits of non-excluded subjects whether graded or not.
func RegisteredCredits(subjects []Subject) int {
	total := 0
	for _, sub := range subjects {
		if !sub.ExcludedFromGPA {
			total += sub.Credits
		}
	}
	return total
}

// YearKey identifies an academic-year bucket.
type YearKey struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// KeyFunc assigns a semester to a year bucket.
type KeyFunc func(Semester) YearKey

// OtherYear is the bucket for semesters whose year cannot be determined.
var OtherYear = YearKey{ID: "other", Label: "Other"}

// TermYearKey groups by the structured Term tag and defers to fallback for untagged
// semesters. A nil fallback sends them to OtherYear.
func TermYearKey(fallback KeyFunc) KeyFunc {
	return func(sem Semester) YearKey {
		if sem.Term != nil && sem.Term.Year > 0 {
			label := fmt.Sprintf("Năm %d", sem.Term.Year)
			if sem.Term.AcademicYear != "" {
				label = fmt.Sprintf("%s (%s)", label, sem.Term.AcademicYear)
			}
			return YearKey{ID: fmt.Sprintf("y%d", sem.Term.Year), Label: label}
		}
		if fallback != nil {
			return fallback(sem)
		}
		return OtherYear
	}
}

// YearStats is the aggregate of every semester sharing a year key.
type YearStats struct {
	YearKey
	AggregateStats
	SemesterIDs []string `json:"semester_ids"`
}

// YearlyStats groups semesters with key and aggregates each group using DefaultPolicy.
func YearlyStats(semesters []Semester, key KeyFunc) []YearStats {
	return DefaultPolicy.YearlyStats(semesters, key)
}

// YearlyStats groups semesters with key, aggregates each group and orders the result by
// programme year, falling back to bucket ids compared number-aware.
func (p Policy) YearlyStats(semesters []Semester, key KeyFunc) []YearStats {
	if key == nil {
		key = TermYearKey(nil)
	}
	groups := make(map[string][]Semester)
	keys := make(map[string]YearKey)
	years := make(map[string]int)
	for _, sem := range semesters {
		k := key(sem)
		if _, seen := keys[k.ID]; !seen {
			keys[k.ID] = k
		}
		groups[k.ID] = append(groups[k.ID], sem)
		if sem.Term != nil && sem.Term.Year > 0 {
			if y, ok := years[k.ID]; !ok || sem.Term.Year < y {
				years[k.ID] = sem.Term.Year
			}
		}
	}

	result := make([]YearStats, 0, len(groups))
	for id, sems := range groups {
		ids := make([]string, 0, len(sems))
		for _, sem := range sems {
			ids = append(ids, sem.ID)
		}
		result = append(result, YearStats{
			YearKey:        keys[id],
			AggregateStats: p.CumulativeStats(sems),
			SemesterIDs:    ids,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		yi, iok := years[result[i].ID]
		yj, jok := years[result[j].ID]
		if iok && jok && yi != yj {
			return yi < yj
		}
		return naturalLess(result[i].ID, result[j].ID)
	})
	return result
}

// naturalLess compares ids with embedded numbers by value, so "y2" sorts before "y10".
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		na, restA := leadingNumber(a)
		nb, restB := leadingNumber(b)
		switch {
		case na >= 0 && nb >= 0:
			if na != nb {
				return na < nb
			}
			a, b = restA, restB
		case a[0] != b[0]:
			return a[0] < b[0]
		default:
			a, b = a[1:], b[1:]
		}
	}
	return len(a) < len(b)
}

// leadingNumber parses the digits at the start of s, returning -1 when there are none.
func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1, s
	}
	return n, s[i:]
}

func flatten(semesters []Semester) []Subject {
	n := 0
	for _, sem := range semesters {
		n += len(sem.Subjects)
	}
	all := make([]Subject, 0, n)
	for _, sem := range semesters {
		all = append(all, sem.Subjects...)
	}
	return all
}
