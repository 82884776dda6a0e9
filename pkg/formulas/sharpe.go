package formulas

import (
	"errors"
	"math"
)

// ErrZeroVolatility is returned when a ratio would divide by zero volatility.
var ErrZeroVolatility = errors.New("volatility is zero")

// SharpeRatio calculates the annualized Sharpe ratio from periodic statistics.
//
//	Sharpe = (mean * periodsPerYear - riskFreeRate) / (stdDev * sqrt(periodsPerYear))
//
// Args:
//   - mean: mean periodic return
//   - stdDev: periodic standard deviation
//   - riskFreeRate: annual risk-free rate as decimal (0.05 = 5%)
//   - periodsPerYear: 252 for daily data
func SharpeRatio(mean, stdDev, riskFreeRate float64, periodsPerYear int) (float64, error) {
	if stdDev < ZeroVarianceEpsilon {
		return 0, ErrZeroVolatility
	}
	n := float64(periodsPerYear)
	return (mean*n - riskFreeRate) / (stdDev * math.Sqrt(n)), nil
}
