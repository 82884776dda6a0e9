// Package analysis is the single entry point of the risk engine: it turns a resolved
// portfolio into weights, a risk profile, concentration, correlation and scenario results.
package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/concentration"
	"github.com/aristath/cryptorisk/internal/modules/correlation"
	"github.com/aristath/cryptorisk/internal/modules/returns"
	"github.com/aristath/cryptorisk/internal/modules/risk"
	"github.com/aristath/cryptorisk/internal/modules/scenarios"
	"github.com/aristath/cryptorisk/internal/modules/weighting"
	"github.com/aristath/cryptorisk/internal/workers"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request is one analysis invocation.
type Request struct {
	Portfolio domain.Portfolio `json:"portfolio" msgpack:"portfolio"`
	// RiskFreeRate defaults to the policy rate when nil.
	RiskFreeRate *float64          `json:"risk_free_rate,omitempty" msgpack:"risk_free_rate,omitempty"`
	Scenarios    []domain.Scenario `json:"scenarios,omitempty" msgpack:"scenarios,omitempty"`
	// Seed defaults to the service seed when nil.
	Seed *uint64 `json:"seed,omitempty" msgpack:"seed,omitempty"`
	// Horizon defaults to the policy horizon when zero.
	Horizon int `json:"horizon,omitempty" msgpack:"horizon,omitempty"`
}

// Result is the structured output consumed by presentation layers.
type Result struct {
	ID                  string                     `json:"id" msgpack:"id"`
	GeneratedAt         time.Time                  `json:"generated_at" msgpack:"generated_at"`
	TotalValueUSD       float64                    `json:"total_value_usd" msgpack:"total_value_usd"`
	Seed                uint64                     `json:"seed" msgpack:"seed"`
	Horizon             int                        `json:"horizon" msgpack:"horizon"`
	RiskFreeRate        float64                    `json:"risk_free_rate" msgpack:"risk_free_rate"`
	Weights             domain.WeightVector        `json:"weights" msgpack:"weights"`
	PositionStats       domain.PositionStats       `json:"position_stats" msgpack:"position_stats"`
	RiskProfile         domain.RiskProfile         `json:"risk_profile" msgpack:"risk_profile"`
	Concentration       domain.Concentration       `json:"concentration" msgpack:"concentration"`
	Correlation         domain.CorrelationMatrix   `json:"correlation_matrix" msgpack:"correlation_matrix"`
	CorrelationInsights domain.CorrelationInsights `json:"correlation_insights" msgpack:"correlation_insights"`
	Scenarios           []domain.ScenarioResult    `json:"scenario_results" msgpack:"scenario_results"`
}

// Service wires the engine components together. It holds no per-request state.
type Service struct {
	policy     domain.RiskPolicy
	classifier *domain.Classifier
	model      *returns.Model
	calculator *risk.Calculator
	analyzer   *concentration.Analyzer
	simulator  *scenarios.Simulator
	pool       *workers.WorkerPool
	seed       uint64
	log        zerolog.Logger
}

// NewService creates the analysis service.
func NewService(
	policy domain.RiskPolicy,
	classifier *domain.Classifier,
	pool *workers.WorkerPool,
	seed uint64,
	log zerolog.Logger,
) *Service {
	calculator := risk.NewCalculator(policy)
	analyzer := concentration.NewAnalyzer(policy.HHIThresholds)
	return &Service{
		policy:     policy,
		classifier: classifier,
		model:      returns.NewModel(policy, log),
		calculator: calculator,
		analyzer:   analyzer,
		simulator:  scenarios.NewSimulator(calculator, analyzer),
		pool:       pool,
		seed:       seed,
		log:        log.With().Str("component", "analysis").Logger(),
	}
}

// Policy returns the policy the service was built with.
func (s *Service) Policy() domain.RiskPolicy {
	return s.policy
}

// Analyze runs the full pipeline. Scenario failures fail the whole call so the caller
// sees the typed error.
func (s *Service) Analyze(req Request) (*Result, error) {
	start := time.Now()

	rf := s.policy.RiskFreeRate
	if req.RiskFreeRate != nil {
		rf = *req.RiskFreeRate
	}
	if math.IsNaN(rf) || math.IsInf(rf, 0) {
		return nil, fmt.Errorf("%w: risk-free rate must be finite", domain.ErrInvalidInput)
	}
	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	horizon := s.policy.Horizon
	if req.Horizon != 0 {
		horizon = req.Horizon
	}

	weights, err := weighting.ComputeWeights(req.Portfolio)
	if err != nil {
		return nil, err
	}

	set, err := s.GenerateReturns(req.Portfolio, weights, horizon, seed)
	if err != nil {
		return nil, err
	}

	base, err := s.simulator.Baseline(req.Portfolio, set, rf)
	if err != nil {
		return nil, err
	}
	conc, err := s.analyzer.Compute(weights)
	if err != nil {
		return nil, err
	}

	matrix, err := correlation.ComputeMatrix(set)
	if err != nil {
		return nil, err
	}

	results, err := s.runScenarios(base, set, req.Scenarios, rf)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:                  uuid.New().String(),
		GeneratedAt:         time.Now().UTC(),
		TotalValueUSD:       base.TotalValueUSD,
		Seed:                seed,
		Horizon:             horizon,
		RiskFreeRate:        rf,
		Weights:             weights,
		PositionStats:       weighting.PositionStats(weights),
		RiskProfile:         base.Profile,
		Concentration:       conc,
		Correlation:         matrix,
		CorrelationInsights: correlation.Insights(matrix),
		Scenarios:           results,
	}

	s.log.Debug().
		Str("analysis_id", result.ID).
		Int("tokens", len(weights)).
		Int("scenarios", len(results)).
		Float64("volatility", result.RiskProfile.Volatility).
		Float64("hhi", conc.HHI).
		Dur("duration", time.Since(start)).
		Msg("Analysis complete")

	return result, nil
}

// GenerateReturns produces the synthetic return set for a portfolio's weighted tokens.
func (s *Service) GenerateReturns(p domain.Portfolio, weights domain.WeightVector, horizon int, seed uint64) (domain.ReturnSet, error) {
	if err := s.policy.CheckHorizon(horizon); err != nil {
		return nil, err
	}
	set, err := s.model.GenerateSet(weights, p.Classes(s.classifier), p.Prices(), horizon, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to generate returns: %w", err)
	}
	return set, nil
}

// Simulate evaluates a single scenario for a portfolio.
func (s *Service) Simulate(p domain.Portfolio, sc domain.Scenario, seed uint64) (domain.ScenarioResult, error) {
	weights, err := weighting.ComputeWeights(p)
	if err != nil {
		return domain.ScenarioResult{}, err
	}
	set, err := s.GenerateReturns(p, weights, s.policy.Horizon, seed)
	if err != nil {
		return domain.ScenarioResult{}, err
	}
	return s.simulator.Simulate(p, set, sc, s.policy.RiskFreeRate)
}

type scenarioOutcome struct {
	result domain.ScenarioResult
	err    error
}

func (s *Service) runScenarios(base scenarios.Baseline, set domain.ReturnSet, requested []domain.Scenario, rf float64) ([]domain.ScenarioResult, error) {
	outcomes := workers.Map(s.pool, requested, func(sc domain.Scenario) scenarioOutcome {
		res, err := s.simulator.Apply(base, set, sc, rf)
		return scenarioOutcome{result: res, err: err}
	})

	results := make([]domain.ScenarioResult, 0, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			s.log.Warn().Err(o.err).Str("scenario", requested[i].Label).Msg("Scenario failed")
			return nil, fmt.Errorf("scenario %d (%s): %w", i, requested[i].Label, o.err)
		}
		results = append(results, o.result)
	}
	return results, nil
}
