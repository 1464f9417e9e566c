package packing

import "math"

// NextFitWorstCase returns ceil(n/2) pairs of capacity/2 followed by
// capacity/(2n), so odd n yields n+1 items.
// Next-Fit opens a bin for every large item while an optimal packing pairs them.
func NextFitWorstCase(n int, capacity float64) []float64 {
	if n <= 0 {
		return nil
	}
	large := capacity / 2
	small := capacity / float64(2*n)
	pairs := int(math.Ceil(float64(n) / 2))

	out := make([]float64, 0, 2*pairs)
	for i := 0; i < pairs; i++ {
		out = append(out, large, small)
	}
	return out
}

// FirstFitWorstCase returns n items in three equal runs just above
// capacity/7, capacity/3 and capacity/2, the classic input that drives
// First-Fit towards its 17/10 ratio.
func FirstFitWorstCase(n int, capacity float64) []float64 {
	if n <= 0 {
		return nil
	}
	third := int(math.Ceil(float64(n) / 3))
	bump := capacity / 1000

	out := make([]float64, 0, 3*third)
	for _, w := range []float64{capacity/7 + bump, capacity/3 + bump, capacity/2 + bump} {
		for i := 0; i < third; i++ {
			out = append(out, w)
		}
	}
	return out
}
