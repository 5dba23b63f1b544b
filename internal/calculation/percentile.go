package calculation

import (
	"math"
	"slices"
)

// RankPercentile returns the nearest-rank percentile of an ascending slice.
// It indexes rather than interpolates so small samples stay stable.
func RankPercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// sortedCopy returns an ascending copy of values
func sortedCopy(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}
