package formulas

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// ParametricVaR is the normal-distribution VaR: mean + z(1-confidence) * stdDev, capped at 0.
func ParametricVaR(mean, stdDev, confidence float64) float64 {
	z := distuv.UnitNormal.Quantile(1 - confidence)
	return minZero(mean + z*stdDev)
}
