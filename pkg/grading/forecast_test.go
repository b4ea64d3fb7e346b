package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTrend(t *testing.T) {
	cases := []struct {
		name     string
		stats    []AggregateStats
		judgment Judgment
		delta    float64
	}{
		{"no semesters", nil, TrendInsufficientData, 0},
		{"single semester", []AggregateStats{{GPA4: 3.0, HasData: true}}, TrendInsufficientData, 0},
		{"improving", []AggregateStats{{GPA4: 3.0, HasData: true}, {GPA4: 3.4, HasData: true}}, TrendImproving, 0.4},
		{"improving at band edge", []AggregateStats{{GPA4: 3.0, HasData: true}, {GPA4: 3.2, HasData: true}}, TrendImproving, 0.2},
		{"declining at band edge", []AggregateStats{{GPA4: 3.4, HasData: true}, {GPA4: 3.2, HasData: true}}, TrendDeclining, -0.2},
		{"stable", []AggregateStats{{GPA4: 3.0, HasData: true}, {GPA4: 3.1, HasData: true}}, TrendStable, 0.1},
		{
			"skips semesters without data",
			[]AggregateStats{{GPA4: 2.0, HasData: true}, {GPA4: 2.5, HasData: true}, {}, {GPA4: 2.4, HasData: true}, {}},
			TrendStable, -0.1,
		},
		{"only one with data", []AggregateStats{{}, {GPA4: 3.0, HasData: true}, {}}, TrendInsufficientData, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trend := AnalyzeTrend(tc.stats)
			assert.Equal(t, tc.judgment, trend.Judgment)
			assert.InDelta(t, tc.delta, trend.Delta, 1e-9)
		})
	}
}

func TestRequiredFutureGPA(t *testing.T) {
	forecast, ok := RequiredFutureGPA(3.6, 90, 125, 3.6)
	require.True(t, ok)
	assert.InDelta(t, 3.6, forecast.RequiredGPA, 1e-9)
	assert.Equal(t, 35, forecast.RemainingCredits)
	assert.True(t, forecast.IsPossible)

	// 3.2*125 = 3.0*60 + x*65
	forecast, ok = RequiredFutureGPA(3.0, 60, 125, 3.2)
	require.True(t, ok)
	assert.InDelta(t, 220.0/65.0, forecast.RequiredGPA, 1e-9)
	assert.True(t, forecast.IsPossible)
}

func TestRequiredFutureGPAInfeasible(t *testing.T) {
	forecast, ok := RequiredFutureGPA(1.0, 100, 125, 4.0)
	require.True(t, ok)
	assert.InDelta(t, 16.0, forecast.RequiredGPA, 1e-9)
	assert.False(t, forecast.IsPossible)

	forecast, ok = RequiredFutureGPA(4.0, 100, 125, 2.0)
	require.True(t, ok)
	assert.Less(t, forecast.RequiredGPA, 0.0)
	assert.False(t, forecast.IsPossible)
}

func TestRequiredFutureGPANoRemainingCredits(t *testing.T) {
	_, ok := RequiredFutureGPA(3.0, 125, 125, 3.2)
	assert.False(t, ok)

	_, ok = RequiredFutureGPA(3.0, 130, 125, 3.2)
	assert.False(t, ok)
}

func TestDifficulty(t *testing.T) {
	p := DefaultPolicy
	assert.Equal(t, DifficultyChallenging, p.Difficulty(TargetForecast{RequiredGPA: 3.7, IsPossible: true}))
	assert.Equal(t, DifficultyDemanding, p.Difficulty(TargetForecast{RequiredGPA: 3.6, IsPossible: true}))
	assert.Equal(t, DifficultyAchievable, p.Difficulty(TargetForecast{RequiredGPA: 3.0, IsPossible: true}))
	assert.Equal(t, DifficultyComfortable, p.Difficulty(TargetForecast{RequiredGPA: 2.5, IsPossible: true}))
	assert.Equal(t, DifficultyUnreachable, p.Difficulty(TargetForecast{RequiredGPA: 4.2}))
}
