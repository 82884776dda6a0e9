// Package weighting normalizes holdings into portfolio weight fractions.
package weighting

import (
	"fmt"
	"math"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/pkg/formulas"
	"github.com/shopspring/decimal"
)

// ComputeWeights converts holdings into a WeightVector.
//
// Values are aggregated per symbol in decimal before dividing, so duplicate listings of
// the same token collapse into one weight. Tokens whose aggregated value is zero are left
// out of the vector.
func ComputeWeights(p domain.Portfolio) (domain.WeightVector, error) {
	if len(p.Holdings) == 0 {
		return nil, fmt.Errorf("%w: no holdings", domain.ErrEmptyPortfolio)
	}

	values := make(map[string]decimal.Decimal, len(p.Holdings))
	total := decimal.Zero
	for _, h := range p.Holdings {
		if h.Symbol == "" {
			return nil, fmt.Errorf("%w: holding without token symbol", domain.ErrInvalidInput)
		}
		if h.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: negative quantity for %s", domain.ErrInvalidInput, h.Symbol)
		}
		if h.UnitPriceUSD.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for %s", domain.ErrInvalidInput, h.Symbol)
		}
		v := h.ValueUSD()
		values[h.Symbol] = values[h.Symbol].Add(v)
		total = total.Add(v)
	}

	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: total value is zero", domain.ErrEmptyPortfolio)
	}

	weights := make(domain.WeightVector, len(values))
	for symbol, v := range values {
		if v.IsZero() {
			continue
		}
		weights[symbol] = v.Div(total).InexactFloat64()
	}

	if sum := weights.Sum(); math.Abs(sum-1) > domain.WeightTolerance {
		return nil, fmt.Errorf("%w: weights sum to %v", domain.ErrValidation, sum)
	}
	return weights, nil
}

// PositionStats summarizes the weight vector's shape.
func PositionStats(w domain.WeightVector) domain.PositionStats {
	stats := domain.PositionStats{NumTokens: len(w)}
	if len(w) == 0 {
		return stats
	}

	symbols := w.Symbols()
	values := make([]float64, 0, len(symbols))
	hhi := 0.0
	stats.SmallestWeight = math.Inf(1)
	for _, s := range symbols {
		weight := w[s]
		values = append(values, weight)
		hhi += weight * weight
		if weight > stats.LargestWeight {
			stats.LargestSymbol, stats.LargestWeight = s, weight
		}
		if weight < stats.SmallestWeight {
			stats.SmallestSymbol, stats.SmallestWeight = s, weight
		}
	}

	stats.WeightStdDev = formulas.StdDev(values)
	if hhi > 0 {
		stats.EffectivePositions = 1 / hhi
	}
	return stats
}
