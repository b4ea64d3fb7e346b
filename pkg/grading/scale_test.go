package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeDetailsForLadder(t *testing.T) {
	cases := []struct {
		score  float64
		scale4 float64
		letter string
	}{
		{10, 4.0, "A+"},
		{9.5, 4.0, "A+"},
		{9.4, 3.7, "A"},
		{9.0, 3.7, "A"},
		{8.5, 3.4, "A-"},
		{8.0, 3.2, "B+"},
		{7.5, 3.0, "B"},
		{7.0, 2.8, "B-"},
		{6.5, 2.6, "C+"},
		{6.0, 2.4, "C"},
		{5.5, 2.2, "C-"},
		{5.0, 2.0, "D+"},
		{4.5, 1.8, "D"},
		{4.0, 1.6, "D-"},
		{3.9, 0.0, "F"},
		{0, 0.0, "F"},
	}
	for _, tc := range cases {
		got := GradeDetailsFor(tc.score)
		assert.Equal(t, tc.scale4, got.Scale4, "score %.2f", tc.score)
		assert.Equal(t, tc.letter, got.Letter, "score %.2f", tc.score)
	}
}

func TestGradeDetailsForRoundsBeforeLookup(t *testing.T) {
	up := GradeDetailsFor(8.95)
	assert.Equal(t, GradeDetailsFor(9.0), up)
	assert.Equal(t, "A", up.Letter)

	down := GradeDetailsFor(8.9499)
	assert.Equal(t, GradeDetailsFor(8.9), down)
	assert.Equal(t, "A-", down.Letter)

	assert.Equal(t, "D-", GradeDetailsFor(3.95).Letter)
	assert.Equal(t, "F", GradeDetailsFor(3.94).Letter)
}

func TestConvertToScale4(t *testing.T) {
	assert.Equal(t, 3.2, ConvertToScale4(8.2))
	assert.Equal(t, 0.0, ConvertToScale4(2))
}
