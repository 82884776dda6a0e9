package formulas

// MaxDrawdownFromReturns compounds periodic returns into a value path starting at 1
// and returns the largest peak-to-trough decline as a positive fraction (0.25 = 25%).
func MaxDrawdownFromReturns(returns []float64) float64 {
	value := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, r := range returns {
		value *= 1 + r
		if value > peak {
			peak = value
			continue
		}
		if peak > 0 {
			if dd := (peak - value) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
