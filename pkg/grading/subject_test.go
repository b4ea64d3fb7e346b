package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectAverageRequiresAllComponents(t *testing.T) {
	_, ok := SubjectAverage(ScoreComponents{})
	assert.False(t, ok)

	_, ok = SubjectAverage(ScoreComponents{Attendance: score(10), Process: score(10), Midterm: score(10)})
	assert.False(t, ok)

	avg, ok := SubjectAverage(ScoreComponents{Attendance: score(0), Process: score(0), Midterm: score(0), Final: score(0)})
	require.True(t, ok)
	assert.Equal(t, 0.0, avg)
}

func TestSubjectAverageWeighting(t *testing.T) {
	comps := ScoreComponents{Attendance: score(8), Process: score(7), Midterm: score(9), Final: score(6)}

	avg, ok := SubjectAverage(comps)
	require.True(t, ok)
	assert.Equal(t, 7.0, avg)
	assert.Equal(t, GradeDetails{Scale4: 2.8, Letter: "B-"}, GradeDetailsFor(avg))
	assert.Equal(t, StatusPass, SubjectStatus(avg, ok))

	result, ok := Grade(Subject{ID: "s1", Credits: 3, Scores: comps})
	require.True(t, ok)
	assert.Equal(t, GradeResult{Average10: 7.0, Scale4: 2.8, Letter: "B-"}, result)
}

func TestSubjectAverageRoundsToOneDecimal(t *testing.T) {
	// 0.1*9 + 0.2*9 + 0.2*9 + 0.5*8.9 = 8.95
	avg, ok := SubjectAverage(ScoreComponents{Attendance: score(9), Process: score(9), Midterm: score(9), Final: score(8.9)})
	require.True(t, ok)
	assert.InDelta(t, 9.0, avg, 0.05)
	assert.Equal(t, avg, round1(avg))
}

func TestSubjectStatus(t *testing.T) {
	assert.Equal(t, StatusUnknown, SubjectStatus(0, false))
	assert.Equal(t, StatusFail, SubjectStatus(0, true))
	assert.Equal(t, StatusFail, SubjectStatus(3.9, true))
	assert.Equal(t, StatusImprove, SubjectStatus(4.0, true))
	assert.Equal(t, StatusImprove, SubjectStatus(5.4, true))
	assert.Equal(t, StatusPass, SubjectStatus(5.5, true))
	assert.Equal(t, StatusPass, SubjectStatus(10, true))
}

func TestUniformFillsEveryComponent(t *testing.T) {
	comps := Uniform(6.4)
	require.True(t, comps.Complete())

	avg, ok := SubjectAverage(comps)
	require.True(t, ok)
	assert.Equal(t, 6.4, avg)

	*comps.Final = 1
	assert.Equal(t, 6.4, *comps.Attendance)
}
