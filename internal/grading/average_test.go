package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAverageWeighted(t *testing.T) {
	// mean(8,9)=8.5; (8.5 + 2*7 + 3*8)/6 = 7.75 -> 7.8
	avg := ComputeAverage([]int{8, 9}, 7, 8)
	assert.InDelta(t, 7.8, avg, 0.0001)
}

func TestComputeAverageAllZeroInputs(t *testing.T) {
	assert.Zero(t, ComputeAverage(nil, 0, 0))
	assert.Zero(t, ComputeAverage([]int{}, 0, 0))
	assert.Zero(t, ComputeAverage([]int{0, 0}, 0, 0))
}

func TestComputeAverageEmptyComponents(t *testing.T) {
	// mean(empty)=0; (0 + 2*6 + 3*9)/6 = 6.5
	avg := ComputeAverage(nil, 6, 9)
	assert.InDelta(t, 6.5, avg, 0.0001)
}

func TestComputeAverageIdempotentAndBounded(t *testing.T) {
	cases := []struct {
		components []int
		midterm    int
		final      int
	}{
		{[]int{10, 10, 10}, 10, 10},
		{[]int{0}, 0, 0},
		{[]int{5, 6, 7}, 8, 9},
		{[]int{1}, 10, 0},
		{nil, 0, 10},
	}
	for _, tc := range cases {
		require.NoError(t, ValidateScores(tc.components, tc.midterm, tc.final))
		first := ComputeAverage(tc.components, tc.midterm, tc.final)
		second := ComputeAverage(tc.components, tc.midterm, tc.final)
		assert.Equal(t, first, second)
		assert.GreaterOrEqual(t, first, 0.0)
		assert.LessOrEqual(t, first, 10.0)
	}
}

func TestComputeAverageRoundsToOneDecimal(t *testing.T) {
	// mean(7)=7; (7 + 2*7 + 3*7)/6 = 7.0
	assert.InDelta(t, 7.0, ComputeAverage([]int{7}, 7, 7), 0.0001)
	// mean(8)=8; (8 + 2*8 + 3*9)/6 = 8.5
	assert.InDelta(t, 8.5, ComputeAverage([]int{8}, 8, 9), 0.0001)
	// mean(5,6)=5.5; (5.5 + 2*6 + 3*7)/6 = 6.4166 -> 6.4
	assert.InDelta(t, 6.4, ComputeAverage([]int{5, 6}, 6, 7), 0.0001)
}

func TestValidateScoresRejectsOutOfRange(t *testing.T) {
	assert.Error(t, ValidateScores([]int{11}, 0, 0))
	assert.Error(t, ValidateScores([]int{-1}, 0, 0))
	assert.Error(t, ValidateScores(nil, 11, 0))
	assert.Error(t, ValidateScores(nil, 0, -2))
	assert.NoError(t, ValidateScores([]int{0, 10}, 0, 10))
}
