package formulas

import (
	"fmt"
	"math"
	"sort"
)

// Percentile returns the p-quantile (0 <= p <= 1) of data using linear interpolation
// between order statistics of the ascending-sorted data:
//
//	h = (N-1) * p
//	q = x[floor(h)] + (h - floor(h)) * (x[floor(h)+1] - x[floor(h)])
//
// The input slice is not modified.
func Percentile(data []float64, p float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("percentile of empty series")
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile rank must be in [0,1], got %v", p)
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), nil
}
