package game

import (
	"math"
	"strconv"
	"time"
)

const (
	maxWordScore = 3.0
	decayDivisor = 10.0
)

// Score computes the points for a correct answer given the time elapsed
// since the word was issued: max(0, 3 - t/10) with t in seconds. Faster
// answers score higher; anything past 30 seconds is worth nothing.
func Score(elapsed time.Duration) float64 {
	score := maxWordScore - elapsed.Seconds()/decayDivisor
	if score < 0 {
		return 0
	}
	return score
}

// FormatScore renders a score for the wire: at most two decimal places, no
// trailing zeros, so an answer a few milliseconds past five seconds still
// prints as "2.5".
func FormatScore(score float64) string {
	rounded := math.Round(score*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
