package service

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/noah-isme/hub-grade-planner/pkg/grading"
	"github.com/noah-isme/hub-grade-planner/pkg/textnorm"
)

// Snapshots saved before semesters carried a Term tag encode the year in free text. These
// patterns recover it: template ids ("y2_hk1"), imported ids ("imported_2023_2024_hk2"),
// generated ids ("generated_2023_hk1") and names ("Năm học 2023-2024 - Học kỳ 1").
var (
	templateIDPattern  = regexp.MustCompile(`^y(\d+)_`)
	yearPairIDPattern  = regexp.MustCompile(`(\d{4})_(\d{4})`)
	generatedIDPattern = regexp.MustCompile(`^generated_(\d{4})_`)
	yearPairNamePat    = regexp.MustCompile(`(\d{4})\s*-\s*(\d{4})`)
	termIndexIDPattern = regexp.MustCompile(`hk(\d)`)
	termIndexNamePat   = regexp.MustCompile(`hoc ky (\d)`)
)

// LegacyYearKey groups untagged semesters the way older snapshots were grouped: by template
// year, then by the academic year found in the id or the name.
func LegacyYearKey(sem grading.Semester) grading.YearKey {
	if m := templateIDPattern.FindStringSubmatch(sem.ID); m != nil {
		return grading.YearKey{ID: "y" + m[1], Label: "Năm " + m[1]}
	}
	if start, end, ok := academicYear(sem); ok {
		pair := fmt.Sprintf("%d-%d", start, end)
		return grading.YearKey{ID: pair, Label: "Năm học " + pair}
	}
	return grading.OtherYear
}

// academicYear extracts the academic year of a semester from its id or, failing that, its name.
func academicYear(sem grading.Semester) (int, int, bool) {
	if m := yearPairIDPattern.FindStringSubmatch(sem.ID); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}
	if m := generatedIDPattern.FindStringSubmatch(sem.ID); m != nil {
		start := atoi(m[1])
		return start, start + 1, true
	}
	if m := yearPairNamePat.FindStringSubmatch(sem.Name); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}
	return 0, 0, false
}

func termIndex(sem grading.Semester) int {
	if m := termIndexIDPattern.FindStringSubmatch(sem.ID); m != nil {
		return atoi(m[1])
	}
	if m := termIndexNamePat.FindStringSubmatch(textnorm.Fold(sem.Name)); m != nil {
		return atoi(m[1])
	}
	return 0
}

func isSummerTerm(sem grading.Semester, index int) bool {
	return index >= 3 || textnorm.ContainsFold(sem.Name, "kỳ hè")
}

// inferTerms tags semesters that have no Term from their legacy id or name. Programme years
// for academic-year matches count from the earliest academic year in the snapshot.
func inferTerms(semesters []grading.Semester) {
	base := 0
	consider := func(start int) {
		if start > 0 && (base == 0 || start < base) {
			base = start
		}
	}
	for _, sem := range semesters {
		if sem.Term != nil {
			if start, _, ok := parseYearPair(sem.Term.AcademicYear); ok && sem.Term.Year > 0 {
				consider(start - sem.Term.Year + 1)
			}
			continue
		}
		if templateIDPattern.MatchString(sem.ID) {
			continue
		}
		if start, _, ok := academicYear(sem); ok {
			consider(start)
		}
	}

	for i := range semesters {
		sem := &semesters[i]
		if sem.Term != nil {
			continue
		}
		index := termIndex(*sem)
		if m := templateIDPattern.FindStringSubmatch(sem.ID); m != nil {
			sem.Term = &grading.Term{Year: atoi(m[1]), Index: index, Summer: isSummerTerm(*sem, index)}
			continue
		}
		start, end, ok := academicYear(*sem)
		if !ok {
			continue
		}
		sem.Term = &grading.Term{
			Year:         start - base + 1,
			Index:        index,
			Summer:       isSummerTerm(*sem, index),
			AcademicYear: fmt.Sprintf("%d-%d", start, end),
		}
	}
}

func parseYearPair(raw string) (int, int, bool) {
	m := yearPairNamePat.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	return atoi(m[1]), atoi(m[2]), true
}

func atoi(raw string) int {
	v, _ := strconv.Atoi(raw)
	return v
}
