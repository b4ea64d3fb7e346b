package grading

// GradeDetails is the letter and 4-point equivalent of a 10-point score.
type GradeDetails struct {
	Scale4 float64 `json:"scale4"`
	Letter string  `json:"letter"`
}

// GradeDetailsFor converts a 10-point score using DefaultPolicy.
func GradeDetailsFor(score10 float64) GradeDetails {
	return DefaultPolicy.GradeDetailsFor(score10)
}

// ConvertToScale4 returns only the 4-point equivalent using DefaultPolicy.
func ConvertToScale4(score10 float64) float64 {
	return DefaultPolicy.GradeDetailsFor(score10).Scale4
}

// GradeDetailsFor rounds the score to one decimal and returns the first rung of the ladder
// whose lower bound it reaches. Scores below the last rung fail.
func (p Policy) GradeDetailsFor(score10 float64) GradeDetails {
	score := round1(score10)
	for _, step := range p.Scale {
		if score >= step.Min {
			return GradeDetails{Scale4: step.Scale4, Letter: step.Letter}
		}
	}
	return GradeDetails{Scale4: p.FailingGrade.Scale4, Letter: p.FailingGrade.Letter}
}
