package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	require.NoError(t, DefaultPolicy.Validate())
	assert.Equal(t, "HUB-2024.1", DefaultPolicy.Version)
}

func TestPolicyValidateRejectsBrokenTables(t *testing.T) {
	p := DefaultPolicy
	p.Weights.Final = 0.4
	assert.ErrorContains(t, p.Validate(), "weights")

	p = DefaultPolicy
	p.Scale = append([]ScaleStep{}, DefaultPolicy.Scale...)
	p.Scale[1], p.Scale[2] = p.Scale[2], p.Scale[1]
	assert.ErrorContains(t, p.Validate(), "descending")

	p = DefaultPolicy
	p.DegreeTiers = []Threshold{{Min: 3.0, Tier: "HONOURS"}}
	assert.ErrorContains(t, p.Validate(), "unknown tier")

	p = DefaultPolicy
	p.ImproveThreshold = 3.0
	assert.Error(t, p.Validate())
}

func TestCustomPolicyDrivesCalculations(t *testing.T) {
	p := DefaultPolicy
	p.Weights = ComponentWeights{Attendance: 0, Process: 0, Midterm: 0.5, Final: 0.5}
	p.TrendThreshold = 0.5

	avg, ok := p.SubjectAverage(ScoreComponents{Attendance: score(0), Process: score(0), Midterm: score(6), Final: score(8)})
	require.True(t, ok)
	assert.Equal(t, 7.0, avg)

	trend := p.AnalyzeTrend([]AggregateStats{{GPA4: 3.0, HasData: true}, {GPA4: 3.4, HasData: true}})
	assert.Equal(t, TrendStable, trend.Judgment)

	assert.Equal(t, TrendImproving, AnalyzeTrend([]AggregateStats{{GPA4: 3.0, HasData: true}, {GPA4: 3.4, HasData: true}}).Judgment)
}
