package analysis

import (
	"math"
	"sort"
)

// percentile implements the Type-7 linear-interpolation quantile estimator
// (R's default, h = (n-1)*p) over data, which must already be sorted
// ascending. p is in [0, 100]. Note: statrs::OrderStatistics::percentile
// actually interpolates at h = (n + 1/3)*p + 1/3 (Hyndman-Fan Type 8), not
// Type 7; see DESIGN.md's open-question log for this discrepancy.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * (p / 100.0)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// sortedCopy returns a sorted ascending copy of data, leaving data untouched.
func sortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}

// f64NanAs0 coerces NaN (e.g. from averaging an empty series) to 0, since
// stats columns are NOT NULL.
func f64NanAs0(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
