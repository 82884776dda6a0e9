// Package scenarios evaluates what-if reallocations and market shocks against a baseline.
package scenarios

import (
	"fmt"
	"math"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/concentration"
	"github.com/aristath/cryptorisk/internal/modules/risk"
	"github.com/aristath/cryptorisk/internal/modules/weighting"
)

// Baseline is the unmodified portfolio's weights and profile.
type Baseline struct {
	Weights       domain.WeightVector
	Profile       domain.RiskProfile
	TotalValueUSD float64
}

// Simulator recomputes risk profiles under a scenario. It never mutates the
// portfolio, weights or return series it is given.
type Simulator struct {
	calculator *risk.Calculator
	analyzer   *concentration.Analyzer
}

// NewSimulator creates a simulator from its two calculators.
func NewSimulator(calculator *risk.Calculator, analyzer *concentration.Analyzer) *Simulator {
	return &Simulator{calculator: calculator, analyzer: analyzer}
}

// Baseline computes the current portfolio's profile.
func (s *Simulator) Baseline(p domain.Portfolio, set domain.ReturnSet, riskFreeRate float64) (Baseline, error) {
	weights, err := weighting.ComputeWeights(p)
	if err != nil {
		return Baseline{}, err
	}
	total := p.TotalValueUSD().InexactFloat64()
	profile, err := s.profile(weights, set, riskFreeRate, total)
	if err != nil {
		return Baseline{}, err
	}
	return Baseline{Weights: weights, Profile: profile, TotalValueUSD: total}, nil
}

// Simulate computes the baseline and the scenario profile side by side.
func (s *Simulator) Simulate(p domain.Portfolio, set domain.ReturnSet, sc domain.Scenario, riskFreeRate float64) (domain.ScenarioResult, error) {
	base, err := s.Baseline(p, set, riskFreeRate)
	if err != nil {
		return domain.ScenarioResult{}, fmt.Errorf("failed to compute baseline: %w", err)
	}
	return s.Apply(base, set, sc, riskFreeRate)
}

// Apply evaluates one scenario against an already computed baseline.
func (s *Simulator) Apply(base Baseline, set domain.ReturnSet, sc domain.Scenario, riskFreeRate float64) (domain.ScenarioResult, error) {
	var (
		weights   domain.WeightVector
		scenarioS domain.ReturnSet
		err       error
	)

	switch sc.Kind {
	case domain.ScenarioReallocation:
		weights, err = validateReallocation(sc.Weights, set)
		if err != nil {
			return domain.ScenarioResult{}, err
		}
		scenarioS = set
	case domain.ScenarioMarketShock:
		scenarioS, err = applyShock(set, sc)
		if err != nil {
			return domain.ScenarioResult{}, err
		}
		weights = base.Weights.Clone()
	default:
		return domain.ScenarioResult{}, fmt.Errorf("%w: unknown scenario type %q", domain.ErrValidation, sc.Kind)
	}

	profile, err := s.profile(weights, scenarioS, riskFreeRate, base.TotalValueUSD)
	if err != nil {
		return domain.ScenarioResult{}, fmt.Errorf("failed to compute scenario %q: %w", sc.Label, err)
	}

	return domain.ScenarioResult{
		Label:    sc.Label,
		Kind:     sc.Kind,
		Weights:  weights,
		Baseline: base.Profile,
		Scenario: profile,
		Delta:    domain.NewProfileDelta(base.Profile, profile),
	}, nil
}

func (s *Simulator) profile(w domain.WeightVector, set domain.ReturnSet, riskFreeRate, total float64) (domain.RiskProfile, error) {
	profile, err := s.calculator.ComputeRiskProfile(w, set, riskFreeRate, total)
	if err != nil {
		return domain.RiskProfile{}, err
	}
	c, err := s.analyzer.Compute(w)
	if err != nil {
		return domain.RiskProfile{}, err
	}
	return profile.WithConcentration(c), nil
}

// validateReallocation checks the candidate weights and returns a private copy.
// Weights are never renormalized: a vector that does not sum to 1 is rejected.
func validateReallocation(w domain.WeightVector, set domain.ReturnSet) (domain.WeightVector, error) {
	if len(w) == 0 {
		return nil, fmt.Errorf("%w: reallocation requires weights", domain.ErrValidation)
	}
	for _, symbol := range w.Symbols() {
		v := w[symbol]
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: weight for %s must be in [0,1], got %v", domain.ErrValidation, symbol, v)
		}
		if _, ok := set[symbol]; !ok {
			return nil, fmt.Errorf("%w: no return series for %s", domain.ErrValidation, symbol)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > domain.WeightTolerance {
		return nil, fmt.Errorf("%w: weights sum to %v, expected 1", domain.ErrValidation, sum)
	}
	return w.Clone(), nil
}

// applyShock returns a copy of set with one extra period appended to every series.
// The appended return is the token's shock multiplier.
func applyShock(set domain.ReturnSet, sc domain.Scenario) (domain.ReturnSet, error) {
	if err := validateShock(sc.ShockMultiplier); err != nil {
		return nil, err
	}
	for symbol, v := range sc.TokenShocks {
		if _, ok := set[symbol]; !ok {
			return nil, fmt.Errorf("%w: shock for unknown token %s", domain.ErrValidation, symbol)
		}
		if err := validateShock(v); err != nil {
			return nil, fmt.Errorf("%s: %w", symbol, err)
		}
	}

	shocked := make(domain.ReturnSet, len(set))
	for _, symbol := range set.Symbols() {
		series := make(domain.ReturnSeries, len(set[symbol]), len(set[symbol])+1)
		copy(series, set[symbol])
		shocked[symbol] = append(series, sc.ShockFor(symbol))
	}
	return shocked, nil
}

func validateShock(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < -1 {
		return fmt.Errorf("%w: shock multiplier must be finite and >= -1, got %v", domain.ErrValidation, v)
	}
	return nil
}
