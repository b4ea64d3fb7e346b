package grading

// DegreeClassification returns the academic standing for a 4-point GPA using DefaultPolicy.
func DegreeClassification(gpa4 float64) Tier {
	return DefaultPolicy.DegreeClassification(gpa4)
}

// TrainingClassification returns the conduct band for a 0-100 training score using
// DefaultPolicy.
func TrainingClassification(drl int) Tier {
	return DefaultPolicy.TrainingClassification(drl)
}

// SemesterReward returns the honour earned by a semester using DefaultPolicy.
func SemesterReward(sem Semester) (RewardTier, bool) {
	return DefaultPolicy.SemesterReward(sem)
}

// DegreeClassification rounds gpa4 to one decimal and matches it against the degree tiers.
// The same bands apply to semester, year and cumulative GPAs.
func (p Policy) DegreeClassification(gpa4 float64) Tier {
	return matchTier(p.DegreeTiers, round1(gpa4), p.FloorTier)
}

// TrainingClassification matches a training score against the training tiers.
func (p Policy) TrainingClassification(drl int) Tier {
	return matchTier(p.TrainingTiers, float64(drl), p.FloorTier)
}

func matchTier(tiers []Threshold, v float64, floor Tier) Tier {
	for _, t := range tiers {
		if v >= t.Min {
			return t.Tier
		}
	}
	return floor
}

// MeetsCreditLoad reports whether the registered non-excluded credits exceed the reward
// minimum.
func (p Policy) MeetsCreditLoad(subjects []Subject) bool {
	return RegisteredCredits(subjects) > p.RewardMinCredits
}

// NotSummer reports whether the semester is a regular term.
func NotSummer(sem Semester) bool {
	return !sem.IsSummer()
}

// HasTrainingScore reports whether a training score was entered.
func HasTrainingScore(sem Semester) bool {
	return sem.TrainingScore != nil
}

// NoWeakSubject reports whether every graded, non-excluded subject reaches the minimum
// 4-point grade for rewards.
func (p Policy) NoWeakSubject(subjects []Subject) bool {
	for _, sub := range subjects {
		if sub.ExcludedFromGPA {
			continue
		}
		grade, ok := p.Grade(sub)
		if !ok {
			continue
		}
		if grade.Scale4 < p.RewardMinSubjectScale4 {
			return false
		}
	}
	return true
}

// RewardFor returns the highest reward whose degree and training minimums are both met.
func (p Policy) RewardFor(degree, training Tier) (RewardTier, bool) {
	for _, rule := range p.RewardRules {
		if degree.AtLeast(rule.MinDegree) && training.AtLeast(rule.MinTraining) {
			return rule.Reward, true
		}
	}
	return "", false
}

// SemesterReward combines the eligibility checks. Summer terms, light loads, any weak
// subject or a missing training score rule the semester out before tiers are compared.
func (p Policy) SemesterReward(sem Semester) (RewardTier, bool) {
	stats := p.Aggregate(sem.Subjects)
	if !stats.HasData {
		return "", false
	}
	if !p.MeetsCreditLoad(sem.Subjects) || !NotSummer(sem) || !p.NoWeakSubject(sem.Subjects) || !HasTrainingScore(sem) {
		return "", false
	}
	return p.RewardFor(p.DegreeClassification(stats.GPA4), p.TrainingClassification(*sem.TrainingScore))
}

// ScholarshipEligible applies the cumulative merit-scholarship screen: GPA and average
// training score at or above the minimums with no failed subject.
func (p Policy) ScholarshipEligible(cumulative AggregateStats, averageTraining int, failedSubjects int) bool {
	return cumulative.HasData &&
		cumulative.GPA4 >= p.Scholarship.MinGPA4 &&
		averageTraining >= p.Scholarship.MinTraining &&
		failedSubjects == 0
}

// FailedSubjects counts graded, non-excluded subjects below the pass threshold.
func (p Policy) FailedSubjects(subjects []Subject) int {
	count := 0
	for _, sub := range subjects {
		if sub.ExcludedFromGPA {
			continue
		}
		avg, ok := p.SubjectAverage(sub.Scores)
		if p.SubjectStatus(avg, ok) == StatusFail {
			count++
		}
	}
	return count
}
