package lib

import "math"

// AmountTolerance is the accepted float drift when comparing settlement
// totals that were each rounded to 2 decimal places.
const AmountTolerance = 0.01

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountsMatch reports whether two monetary totals agree within the
// settlement tolerance.
func AmountsMatch(a, b float64) bool {
	return math.Abs(a-b) <= AmountTolerance+1e-9
}
