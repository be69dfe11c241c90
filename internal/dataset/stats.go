package dataset

import (
	"math"
	"slices"
)

// quantile returns the q-th quantile (0 <= q <= 1) of x using linear
// interpolation between the closest ranks. x is not modified.
//
// series.Quantile is not used: it returns the empirical quantile, which
// never interpolates.
func quantile(x []float64, q float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}

	cp := slices.Clone(x)
	slices.Sort(cp)
	if q <= 0 {
		return cp[0]
	}
	if q >= 1 {
		return cp[n-1]
	}

	rank := q * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= n {
		return cp[lower]
	}
	weight := rank - float64(lower)
	return cp[lower]*(1-weight) + cp[upper]*weight
}
