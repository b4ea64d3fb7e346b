package grading

// Judgment is the qualitative direction between the two latest graded semesters.
type Judgment string

const (
	TrendInsufficientData Judgment = "INSUFFICIENT_DATA"
	TrendImproving        Judgment = "IMPROVING"
	TrendDeclining        Judgment = "DECLINING"
	TrendStable           Judgment = "STABLE"
)

// Trend is the outcome of AnalyzeTrend. Delta is the 4-point change, zero when data is
// insufficient.
type Trend struct {
	Judgment Judgment `json:"judgment"`
	Delta    float64  `json:"delta"`
}

// TargetForecast is the average 4-point GPA needed across the remaining credits.
type TargetForecast struct {
	RequiredGPA      float64 `json:"required_gpa"`
	RemainingCredits int     `json:"remaining_credits"`
	IsPossible       bool    `json:"is_possible"`
}

// AnalyzeTrend compares semesters using DefaultPolicy.
func AnalyzeTrend(ordered []AggregateStats) Trend {
	return DefaultPolicy.AnalyzeTrend(ordered)
}

// RequiredFutureGPA solves the target forecast using DefaultPolicy.
func RequiredFutureGPA(currentGPA4 float64, passedCredits, totalCreditsRequired int, targetGPA4 float64) (TargetForecast, bool) {
	return DefaultPolicy.RequiredFutureGPA(currentGPA4, passedCredits, totalCreditsRequired, targetGPA4)
}

// AnalyzeTrend looks at the two most recent semesters with data. The delta is rounded to two
// decimals before it is compared with the sensitivity band so float noise on one-decimal
// GPAs cannot flip the judgment.
func (p Policy) AnalyzeTrend(ordered []AggregateStats) Trend {
	var latest, previous *AggregateStats
	for i := len(ordered) - 1; i >= 0; i-- {
		if !ordered[i].HasData {
			continue
		}
		if latest == nil {
			latest = &ordered[i]
			continue
		}
		previous = &ordered[i]
		break
	}
	if latest == nil || previous == nil {
		return Trend{Judgment: TrendInsufficientData}
	}

	delta := roundTo(latest.GPA4-previous.GPA4, 2)
	switch {
	case delta >= p.TrendThreshold:
		return Trend{Judgment: TrendImproving, Delta: delta}
	case delta <= -p.TrendThreshold:
		return Trend{Judgment: TrendDeclining, Delta: delta}
	default:
		return Trend{Judgment: TrendStable, Delta: delta}
	}
}

// RequiredFutureGPA inverts the credit-weighted mean: target * total equals the points
// already earned on passed credits plus required * remaining. ok is false once no credits
// remain; the caller then compares the current GPA with the target directly.
func (p Policy) RequiredFutureGPA(currentGPA4 float64, passedCredits, totalCreditsRequired int, targetGPA4 float64) (TargetForecast, bool) {
	remaining := totalCreditsRequired - passedCredits
	if remaining <= 0 {
		return TargetForecast{}, false
	}
	targetPoints := targetGPA4 * float64(totalCreditsRequired)
	earnedPoints := currentGPA4 * float64(passedCredits)
	required := (targetPoints - earnedPoints) / float64(remaining)
	return TargetForecast{
		RequiredGPA:      required,
		RemainingCredits: remaining,
		IsPossible:       required >= 0 && required <= p.MaxGPA4,
	}, true
}

// Difficulty labels how demanding a forecast is. Infeasible forecasts are UNREACHABLE.
func (p Policy) Difficulty(f TargetForecast) Difficulty {
	if !f.IsPossible {
		return DifficultyUnreachable
	}
	for _, step := range p.DifficultySteps {
		if f.RequiredGPA > step.Above {
			return step.Difficulty
		}
	}
	return DifficultyComfortable
}
