package formulas

import (
	"fmt"
)

// TailRisk is the historical VaR/CVaR pair at one confidence level.
type TailRisk struct {
	// Threshold is the raw (1-confidence) percentile of the returns.
	Threshold float64
	// VaR is min(Threshold, 0).
	VaR float64
	// CVaR is min(mean of returns <= Threshold, 0).
	CVaR float64
	// TailCount is how many observations fell at or below Threshold.
	TailCount int
}

// HistoricalTailRisk calculates Value at Risk and Conditional Value at Risk from an empirical
// return distribution. Both are reported as non-positive fractions: a percentile that lands
// on a gain means no loss is expected at that confidence, so VaR is 0.
//
// Args:
//   - returns: periodic returns (negative for losses)
//   - confidence: confidence level (e.g. 0.95)
func HistoricalTailRisk(returns []float64, confidence float64) (TailRisk, error) {
	if confidence <= 0 || confidence >= 1 {
		return TailRisk{}, fmt.Errorf("confidence must be in (0,1), got %v", confidence)
	}
	threshold, err := Percentile(returns, 1-confidence)
	if err != nil {
		return TailRisk{}, err
	}

	sum := 0.0
	count := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}
	// x[floor(h)] <= threshold, so the tail always has at least one member.
	tailMean := sum / float64(count)

	return TailRisk{
		Threshold: threshold,
		VaR:       minZero(threshold),
		CVaR:      minZero(tailMean),
		TailCount: count,
	}, nil
}

func minZero(v float64) float64 {
	if v > 0 {
		return 0
	}
	return v
}
