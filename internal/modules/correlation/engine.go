// Package correlation builds token-by-token correlation matrices from return series.
package correlation

import (
	"fmt"
	"math"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/pkg/formulas"
)

const (
	highCorrelationThreshold     = 0.7
	negativeCorrelationThreshold = -0.3
	mediumRiskThreshold          = 0.4
)

// ComputeMatrix returns the Pearson correlation matrix of every pair of series.
// Rows follow ascending symbol order. The diagonal is 1 for every token; any
// off-diagonal cell touching a zero-variance series is left undefined.
func ComputeMatrix(set domain.ReturnSet) (domain.CorrelationMatrix, error) {
	if len(set) == 0 {
		return domain.CorrelationMatrix{}, fmt.Errorf("%w: no return series", domain.ErrInsufficientData)
	}

	symbols := set.Symbols()
	n := len(set[symbols[0]])
	for _, s := range symbols {
		if len(set[s]) != n {
			return domain.CorrelationMatrix{}, fmt.Errorf("%w: series for %s has %d periods, expected %d",
				domain.ErrValidation, s, len(set[s]), n)
		}
		if err := set[s].CheckFinite(s); err != nil {
			return domain.CorrelationMatrix{}, err
		}
	}
	if n < 2 {
		return domain.CorrelationMatrix{}, fmt.Errorf("%w: need at least 2 periods, got %d", domain.ErrInsufficientData, n)
	}

	coeffs := make([][]domain.Coefficient, len(symbols))
	for i := range coeffs {
		coeffs[i] = make([]domain.Coefficient, len(symbols))
		coeffs[i][i] = domain.Coefficient{Value: 1, Defined: true}
	}
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			v, ok := formulas.Correlation(set[symbols[i]], set[symbols[j]])
			c := domain.Coefficient{Value: v, Defined: ok}
			coeffs[i][j] = c
			coeffs[j][i] = c
		}
	}

	return domain.CorrelationMatrix{Symbols: symbols, Coefficients: coeffs}, nil
}

// Insights summarizes the upper triangle of a matrix.
func Insights(m domain.CorrelationMatrix) domain.CorrelationInsights {
	ins := domain.CorrelationInsights{
		HighCorrelations:     []domain.CorrelationPair{},
		NegativeCorrelations: []domain.CorrelationPair{},
		Risk:                 domain.CorrelationRiskLow,
	}

	sum := 0.0
	ins.MaxCorrelation = math.Inf(-1)
	ins.MinCorrelation = math.Inf(1)
	for i := 0; i < len(m.Symbols); i++ {
		for j := i + 1; j < len(m.Symbols); j++ {
			c := m.Coefficients[i][j]
			if !c.Defined {
				ins.UndefinedPairs++
				continue
			}
			ins.DefinedPairs++
			sum += c.Value
			ins.MaxCorrelation = math.Max(ins.MaxCorrelation, c.Value)
			ins.MinCorrelation = math.Min(ins.MinCorrelation, c.Value)

			pair := domain.CorrelationPair{Symbol1: m.Symbols[i], Symbol2: m.Symbols[j], Correlation: c.Value}
			if c.Value > highCorrelationThreshold {
				ins.HighCorrelations = append(ins.HighCorrelations, pair)
			}
			if c.Value < negativeCorrelationThreshold {
				ins.NegativeCorrelations = append(ins.NegativeCorrelations, pair)
			}
		}
	}

	if ins.DefinedPairs == 0 {
		ins.MaxCorrelation, ins.MinCorrelation = 0, 0
		ins.DiversificationScore = 1
		return ins
	}

	ins.AverageCorrelation = sum / float64(ins.DefinedPairs)
	ins.DiversificationScore = math.Max(0, 1-math.Abs(ins.AverageCorrelation))
	switch {
	case ins.AverageCorrelation > highCorrelationThreshold:
		ins.Risk = domain.CorrelationRiskHigh
	case ins.AverageCorrelation > mediumRiskThreshold:
		ins.Risk = domain.CorrelationRiskMedium
	}
	return ins
}
