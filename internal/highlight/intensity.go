package highlight

import (
	"math"
	"math/big"
)

const (
	minIntensity = 0.1
	maxIntensity = 0.9
)

// Intensity bounds a score to [0.1, 0.9] for display so that weak signals
// stay visible and strong ones stay readable. NaN maps to the floor.
func Intensity(score float64) float64 {
	if math.IsNaN(score) {
		return minIntensity
	}
	return math.Min(math.Max(score, minIntensity), maxIntensity)
}

// Level is the intensity rounded to one decimal and scaled to 10..90, the
// step used by the bg-red-<level> classes. Rounding works on the exact
// value of the float, so 0.35 (stored just below) gives 30; exact ties
// round up.
func Level(score float64) int {
	return tenths(Intensity(score)) * 10
}

// tenths rounds a positive finite x to the nearest tenth, in units of 0.1.
func tenths(x float64) int {
	r := new(big.Rat).SetFloat64(x)
	r.Mul(r, big.NewRat(10, 1))
	n := new(big.Int).Quo(r.Num(), r.Denom())
	frac := new(big.Rat).Sub(r, new(big.Rat).SetInt(n))
	if frac.Cmp(big.NewRat(1, 2)) >= 0 {
		n.Add(n, big.NewInt(1))
	}
	return int(n.Int64())
}

// SuspicionPercent is the raw score as a whole percentage for tooltips.
func SuspicionPercent(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(score * 100))
}
