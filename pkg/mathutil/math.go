// Package mathutil provides small numeric helpers shared by the metric
// computations.
package mathutil

// Min calculates the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// Max calculates the maximum of two integers.
func Max(a, b int) int {
	if a < b {
		return b
	}

	return a
}

// Clamp bounds v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
