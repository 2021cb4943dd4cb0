// Package quality maps image complexity to a suggested encode quality
// and searches downward from it until an output size budget is met.
package quality

import "math"

const (
	// Bounds of the suggested quality returned by Suggest, in percent.
	MinSuggested = 60
	MaxSuggested = 90

	// Floor is the lowest quality percent the adaptive search will
	// step past, and Step is the size of each downward step.
	Floor = 20
	Step  = 5
)

// Suggest maps a complexity score in [0,1] to an initial encode
// quality in [MinSuggested, MaxSuggested], rounding to the nearest
// percent. Busier images mask compression artifacts, so a higher
// score maps to a higher quality setting. Out-of-range and NaN
// scores are treated as 0.
func Suggest(score float64) int {
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return int(math.Round(MinSuggested + (MaxSuggested-MinSuggested)*score))
}
