// Package concentration measures how concentrated a portfolio is.
package concentration

import (
	"fmt"

	"github.com/aristath/cryptorisk/internal/domain"
)

// Analyzer computes the Herfindahl-Hirschman Index and labels it against policy bands.
type Analyzer struct {
	thresholds domain.HHIThresholds
}

// NewAnalyzer creates an analyzer with the given band edges.
func NewAnalyzer(thresholds domain.HHIThresholds) *Analyzer {
	return &Analyzer{thresholds: thresholds}
}

// Compute returns the HHI (Σ weight²) and its diversification label.
func (a *Analyzer) Compute(w domain.WeightVector) (domain.Concentration, error) {
	if len(w) == 0 {
		return domain.Concentration{}, fmt.Errorf("%w: no weights", domain.ErrEmptyPortfolio)
	}
	if err := w.CheckFinite(); err != nil {
		return domain.Concentration{}, err
	}

	hhi := 0.0
	for _, s := range w.Symbols() {
		weight := w[s]
		if weight < 0 || weight > 1 {
			return domain.Concentration{}, fmt.Errorf("%w: weight for %s out of range: %v", domain.ErrValidation, s, weight)
		}
		hhi += weight * weight
	}
	// A one-token vector is exactly 1; clamp rounding noise from the sum.
	if hhi > 1 {
		hhi = 1
	}

	c := domain.Concentration{
		HHI:   hhi,
		Label: a.Label(hhi),
	}
	if hhi > 0 {
		c.EffectivePositions = 1 / hhi
	}
	return c, nil
}

// Label maps an HHI to a band. Each band includes its lower edge.
func (a *Analyzer) Label(hhi float64) domain.DiversificationLabel {
	switch {
	case hhi >= a.thresholds.Low:
		return domain.DiversificationLow
	case hhi >= a.thresholds.High:
		return domain.DiversificationModerate
	default:
		return domain.DiversificationHigh
	}
}
