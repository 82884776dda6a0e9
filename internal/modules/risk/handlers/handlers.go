// Package handlers provides HTTP handlers for risk metrics operations.
package handlers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/aristath/cryptorisk/internal/api"
	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/concentration"
	"github.com/aristath/cryptorisk/internal/modules/correlation"
	"github.com/aristath/cryptorisk/internal/modules/risk"
	"github.com/aristath/cryptorisk/internal/modules/weighting"
	"github.com/aristath/cryptorisk/pkg/formulas"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles risk metrics HTTP requests
type Handler struct {
	service    *analysis.Service
	calculator *risk.Calculator
	analyzer   *concentration.Analyzer
	classifier *domain.Classifier
	seed       uint64
	log        zerolog.Logger
}

// NewHandler creates a new risk metrics handler
func NewHandler(
	service *analysis.Service,
	classifier *domain.Classifier,
	defaultSeed uint64,
	log zerolog.Logger,
) *Handler {
	policy := service.Policy()
	return &Handler{
		service:    service,
		calculator: risk.NewCalculator(policy),
		analyzer:   concentration.NewAnalyzer(policy.HHIThresholds),
		classifier: classifier,
		seed:       defaultSeed,
		log:        log.With().Str("handler", "risk").Logger(),
	}
}

// ProfileRequest is the body of POST /api/risk/profile.
//
// Either Portfolio is given (returns are generated from it), or Weights and Returns are
// given directly.
type ProfileRequest struct {
	Portfolio     *domain.Portfolio   `json:"portfolio,omitempty" msgpack:"portfolio,omitempty"`
	Weights       domain.WeightVector `json:"weights,omitempty" msgpack:"weights,omitempty"`
	Returns       domain.ReturnSet    `json:"returns,omitempty" msgpack:"returns,omitempty"`
	TotalValueUSD float64             `json:"total_value_usd,omitempty" msgpack:"total_value_usd,omitempty"`
	RiskFreeRate  *float64            `json:"risk_free_rate,omitempty" msgpack:"risk_free_rate,omitempty"`
	Seed          *uint64             `json:"seed,omitempty" msgpack:"seed,omitempty"`
	Horizon       int                 `json:"horizon,omitempty" msgpack:"horizon,omitempty"`
}

// ProfileResponse is the data of POST /api/risk/profile.
type ProfileResponse struct {
	Weights       domain.WeightVector  `json:"weights" msgpack:"weights"`
	RiskProfile   domain.RiskProfile   `json:"risk_profile" msgpack:"risk_profile"`
	Concentration domain.Concentration `json:"concentration" msgpack:"concentration"`
	PositionStats domain.PositionStats `json:"position_stats" msgpack:"position_stats"`
}

// CorrelationRequest is the body of POST /api/risk/correlation.
type CorrelationRequest struct {
	Portfolio *domain.Portfolio `json:"portfolio,omitempty" msgpack:"portfolio,omitempty"`
	Returns   domain.ReturnSet  `json:"returns,omitempty" msgpack:"returns,omitempty"`
	Seed      *uint64           `json:"seed,omitempty" msgpack:"seed,omitempty"`
	Horizon   int               `json:"horizon,omitempty" msgpack:"horizon,omitempty"`
}

// CorrelationResponse is the data of POST /api/risk/correlation.
type CorrelationResponse struct {
	Matrix   domain.CorrelationMatrix   `json:"correlation_matrix" msgpack:"correlation_matrix"`
	Insights domain.CorrelationInsights `json:"correlation_insights" msgpack:"correlation_insights"`
}

// ClassificationResponse is one entry of GET /api/risk/classify/{symbol}.
type ClassificationResponse struct {
	Symbol        string                 `json:"token_symbol" msgpack:"token_symbol"`
	Class         domain.VolatilityClass `json:"volatility_class" msgpack:"volatility_class"`
	DailyStdDev   float64                `json:"daily_std_dev" msgpack:"daily_std_dev"`
	DailyDrift    float64                `json:"daily_drift" msgpack:"daily_drift"`
	AnnualizedVol float64                `json:"annualized_volatility" msgpack:"annualized_volatility"`
}

// HandleProfile handles POST /api/risk/profile
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	var (
		resp *ProfileResponse
		err  error
	)
	switch {
	case req.Returns != nil:
		resp, err = h.profileFromReturns(req)
	case req.Portfolio != nil:
		resp, err = h.profileFromPortfolio(req)
	default:
		err = fmt.Errorf("%w: either portfolio or weights with returns is required", domain.ErrInvalidInput)
	}
	if err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	api.WriteData(w, r, http.StatusOK, resp, h.log)
}

func (h *Handler) profileFromReturns(req ProfileRequest) (*ProfileResponse, error) {
	if len(req.Weights) == 0 {
		return nil, fmt.Errorf("%w: weights are required with returns", domain.ErrInvalidInput)
	}
	if req.TotalValueUSD < 0 || math.IsNaN(req.TotalValueUSD) || math.IsInf(req.TotalValueUSD, 0) {
		return nil, fmt.Errorf("%w: total value must be a non-negative number, got %v", domain.ErrInvalidInput, req.TotalValueUSD)
	}
	rf := h.service.Policy().RiskFreeRate
	if req.RiskFreeRate != nil {
		rf = *req.RiskFreeRate
	}

	profile, err := h.calculator.ComputeRiskProfile(req.Weights, req.Returns, rf, req.TotalValueUSD)
	if err != nil {
		return nil, err
	}
	conc, err := h.analyzer.Compute(req.Weights)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		Weights:       req.Weights,
		RiskProfile:   profile.WithConcentration(conc),
		Concentration: conc,
		PositionStats: weighting.PositionStats(req.Weights),
	}, nil
}

func (h *Handler) profileFromPortfolio(req ProfileRequest) (*ProfileResponse, error) {
	res, err := h.service.Analyze(analysis.Request{
		Portfolio:    *req.Portfolio,
		RiskFreeRate: req.RiskFreeRate,
		Seed:         req.Seed,
		Horizon:      req.Horizon,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		Weights:       res.Weights,
		RiskProfile:   res.RiskProfile,
		Concentration: res.Concentration,
		PositionStats: res.PositionStats,
	}, nil
}

// HandleCorrelation handles POST /api/risk/correlation
func (h *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req CorrelationRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	set := req.Returns
	if set == nil {
		if req.Portfolio == nil {
			api.WriteError(w, r, fmt.Errorf("%w: either portfolio or returns is required", domain.ErrInvalidInput), h.log)
			return
		}
		generated, err := h.generate(*req.Portfolio, req.Seed, req.Horizon)
		if err != nil {
			api.WriteError(w, r, err, h.log)
			return
		}
		set = generated
	}

	matrix, err := correlation.ComputeMatrix(set)
	if err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	api.WriteData(w, r, http.StatusOK, CorrelationResponse{
		Matrix:   matrix,
		Insights: correlation.Insights(matrix),
	}, h.log)
}

func (h *Handler) generate(p domain.Portfolio, seed *uint64, horizon int) (domain.ReturnSet, error) {
	weights, err := weighting.ComputeWeights(p)
	if err != nil {
		return nil, err
	}
	s := h.seed
	if seed != nil {
		s = *seed
	}
	if horizon == 0 {
		horizon = h.service.Policy().Horizon
	}
	return h.service.GenerateReturns(p, weights, horizon, s)
}

// HandleClassify handles GET /api/risk/classify/{symbol}
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	resp, err := h.Classify(symbol)
	if err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}
	api.WriteData(w, r, http.StatusOK, resp, h.log)
}

// Classify resolves a symbol's class and the policy parameters that go with it.
func (h *Handler) Classify(symbol string) (ClassificationResponse, error) {
	if symbol == "" {
		return ClassificationResponse{}, fmt.Errorf("%w: symbol is required", domain.ErrInvalidInput)
	}
	policy := h.service.Policy()
	class := h.classifier.Classify(symbol)
	sd, err := policy.StdDevFor(class)
	if err != nil {
		return ClassificationResponse{}, err
	}
	return ClassificationResponse{
		Symbol:        symbol,
		Class:         class,
		DailyStdDev:   sd,
		DailyDrift:    policy.DriftFor(class),
		AnnualizedVol: formulas.AnnualizedVolatility(sd, policy.AnnualizationFactor),
	}, nil
}
