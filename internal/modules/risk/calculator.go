// Package risk computes risk/return statistics for a weighted set of return series.
package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/pkg/formulas"
)

// Calculator turns weights plus per-token return series into a RiskProfile.
// It holds only the policy and is safe for concurrent use.
type Calculator struct {
	annualization int
	confidence    float64
}

// NewCalculator creates a calculator using the policy's annualization and confidence.
func NewCalculator(policy domain.RiskPolicy) *Calculator {
	return &Calculator{
		annualization: policy.AnnualizationFactor,
		confidence:    policy.Confidence,
	}
}

// PortfolioReturns combines per-token series into the weighted portfolio series:
// r_p[t] = Σ w[token] * r[token][t]. Tokens are visited in ascending symbol order.
func PortfolioReturns(w domain.WeightVector, set domain.ReturnSet) ([]float64, error) {
	if len(w) == 0 {
		return nil, fmt.Errorf("%w: no weights", domain.ErrEmptyPortfolio)
	}
	if err := w.CheckFinite(); err != nil {
		return nil, err
	}

	symbols := w.Symbols()
	n := -1
	for _, s := range symbols {
		series, ok := set[s]
		if !ok {
			return nil, fmt.Errorf("%w: no return series for %s", domain.ErrValidation, s)
		}
		if n >= 0 && len(series) != n {
			return nil, fmt.Errorf("%w: series for %s has %d periods, expected %d", domain.ErrValidation, s, len(series), n)
		}
		if err := series.CheckFinite(s); err != nil {
			return nil, err
		}
		n = len(series)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 periods, got %d", domain.ErrInsufficientData, n)
	}

	weights := make([]float64, len(symbols))
	for i, s := range symbols {
		weights[i] = w[s]
	}
	column := make([]float64, len(symbols))
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		for i, s := range symbols {
			column[i] = set[s][t]
		}
		out[t] = formulas.WeightedSum(weights, column)
	}
	return out, nil
}

// ComputeRiskProfile computes every statistic except the concentration fields, which
// belong to the concentration analyzer. totalValueUSD scales the dollar VaR figures and
// may be zero when only fractions are wanted.
func (c *Calculator) ComputeRiskProfile(
	w domain.WeightVector,
	set domain.ReturnSet,
	riskFreeRate float64,
	totalValueUSD float64,
) (domain.RiskProfile, error) {
	if err := w.CheckFinite(); err != nil {
		return domain.RiskProfile{}, err
	}
	if sum := w.Sum(); len(w) > 0 && math.Abs(sum-1) > domain.WeightTolerance {
		return domain.RiskProfile{}, fmt.Errorf("%w: weights sum to %v", domain.ErrValidation, sum)
	}
	for _, s := range w.Symbols() {
		if w[s] < 0 || w[s] > 1 {
			return domain.RiskProfile{}, fmt.Errorf("%w: weight for %s out of range: %v", domain.ErrValidation, s, w[s])
		}
	}
	if math.IsNaN(riskFreeRate) || math.IsInf(riskFreeRate, 0) {
		return domain.RiskProfile{}, fmt.Errorf("%w: risk-free rate must be finite", domain.ErrInvalidInput)
	}

	returns, err := PortfolioReturns(w, set)
	if err != nil {
		return domain.RiskProfile{}, err
	}

	mean := formulas.Mean(returns)
	vol := formulas.StdDev(returns)

	tail, err := formulas.HistoricalTailRisk(returns, c.confidence)
	if err != nil {
		return domain.RiskProfile{}, fmt.Errorf("failed to compute tail risk: %w", err)
	}

	profile := domain.RiskProfile{
		Volatility:           vol,
		AnnualizedVolatility: formulas.AnnualizedVolatility(vol, c.annualization),
		MeanReturn:           mean,
		AnnualizedReturn:     mean * float64(c.annualization),
		VaR95:                tail.VaR,
		CVaR95:               tail.CVaR,
		VaR95USD:             tail.VaR * totalValueUSD,
		CVaR95USD:            tail.CVaR * totalValueUSD,
		ParametricVaR95:      formulas.ParametricVaR(mean, vol, c.confidence),
		MaxDrawdown:          formulas.MaxDrawdownFromReturns(returns),
		DiversificationRatio: diversificationRatio(w, set, vol),
		Periods:              len(returns),
	}

	sharpe, err := formulas.SharpeRatio(mean, vol, riskFreeRate, c.annualization)
	switch {
	case errors.Is(err, formulas.ErrZeroVolatility):
		profile.SharpeRatio = 0
		profile.SharpeDefined = false
	case err != nil:
		return domain.RiskProfile{}, fmt.Errorf("failed to compute sharpe ratio: %w", err)
	default:
		profile.SharpeRatio = sharpe
		profile.SharpeDefined = true
	}

	return profile, nil
}

// SharpeRatio is the strict form of the ratio: it fails with ErrUndefinedRatio when the
// portfolio series has zero volatility instead of reporting 0.
func (c *Calculator) SharpeRatio(w domain.WeightVector, set domain.ReturnSet, riskFreeRate float64) (float64, error) {
	returns, err := PortfolioReturns(w, set)
	if err != nil {
		return 0, err
	}
	sharpe, err := formulas.SharpeRatio(formulas.Mean(returns), formulas.StdDev(returns), riskFreeRate, c.annualization)
	if errors.Is(err, formulas.ErrZeroVolatility) {
		return 0, fmt.Errorf("%w: portfolio volatility is zero", domain.ErrUndefinedRatio)
	}
	return sharpe, err
}

// diversificationRatio is Σ w_i σ_i / σ_p, or 1 when the portfolio is constant.
func diversificationRatio(w domain.WeightVector, set domain.ReturnSet, portfolioVol float64) float64 {
	if portfolioVol == 0 {
		return 1
	}
	weighted := 0.0
	for _, s := range w.Symbols() {
		weighted += w[s] * formulas.StdDev(set[s])
	}
	return weighted / portfolioVol
}
