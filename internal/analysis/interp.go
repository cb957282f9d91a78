package analysis

import (
	"math"
	"sort"
)

// Interpolate returns the time at which target is reached, by linear
// interpolation between the two samples of values that bracket it. values
// must be non-decreasing and parallel to times. Targets outside the range of
// values clamp to the time of the nearest end; an exact match returns that
// sample's time (the last one when values repeat). Empty input, or values
// that leave target without a bracketing pair (NaN readings), give NaN.
func Interpolate(target float64, values, times []float64) float64 {
	n := len(values)
	if n == 0 || len(times) != n {
		return math.NaN()
	}
	if target < values[0] {
		return times[0]
	}
	if target >= values[n-1] {
		return times[n-1]
	}

	j := sort.Search(n, func(i int) bool { return values[i] > target })
	if j == 0 || j == n {
		return math.NaN()
	}
	v0, v1 := values[j-1], values[j]
	if v0 == target {
		return times[j-1]
	}
	frac := (target - v0) / (v1 - v0)
	return times[j-1] + frac*(times[j]-times[j-1])
}

// reversed returns a reversed copy of s.
func reversed(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// firstIndex returns the first index in [from, to) whose value satisfies pred.
func firstIndex(values []float64, from, to int, pred func(float64) bool) (int, bool) {
	for i := from; i < to && i < len(values); i++ {
		if pred(values[i]) {
			return i, true
		}
	}
	return -1, false
}
