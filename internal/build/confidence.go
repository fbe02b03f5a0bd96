package build

import "math"

// confidenceZ is the inverse normal for ~99.999% one-sided confidence
const confidenceZ = 4.265

// ConfidenceScore returns the Wilson score lower bound of the win rate.
// Small samples are penalized relative to the raw percentage.
// https://www.evanmiller.org/how-not-to-sort-by-average-rating.html
func ConfidenceScore(wins, played float64) float64 {
	if played <= 0 {
		return 0
	}

	z2 := confidenceZ * confidenceZ
	phat := wins / played

	score := (phat + z2/(2*played) - confidenceZ*math.Sqrt((phat*(1-phat)+z2/(4*played))/played)) / (1 + z2/played)

	// Clamp float noise at the edges
	return math.Min(1, math.Max(0, score))
}
