package grading

import (
	"fmt"
	"math"

	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

const (
	// ScoreMin and ScoreMax bound every raw score component.
	ScoreMin = 0
	ScoreMax = 10
)

// ValidateScores rejects any component, midterm or final value outside
// [ScoreMin, ScoreMax]. Out-of-range values are an error, never clamped.
func ValidateScores(components []int, midterm, final int) error {
	for i, v := range components {
		if v < ScoreMin || v > ScoreMax {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("component score %d at position %d is outside [0,10]", v, i))
		}
	}
	if midterm < ScoreMin || midterm > ScoreMax {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("midterm score %d is outside [0,10]", midterm))
	}
	if final < ScoreMin || final > ScoreMax {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("final score %d is outside [0,10]", final))
	}
	return nil
}

// ComputeAverage derives the weighted term average:
// (mean(components) + 2*midterm + 3*final) / 6, rounded to one decimal.
// All-zero inputs yield 0. Inputs must already be range-validated.
func ComputeAverage(components []int, midterm, final int) float64 {
	mean := componentMean(components)
	if mean == 0 && midterm == 0 && final == 0 {
		return 0
	}
	avg := (mean + 2*float64(midterm) + 3*float64(final)) / 6
	return math.Round(avg*10) / 10
}

func componentMean(components []int) float64 {
	if len(components) == 0 {
		return 0
	}
	sum := 0
	for _, v := range components {
		sum += v
	}
	return float64(sum) / float64(len(components))
}
