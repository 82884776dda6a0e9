// Package handlers provides HTTP handlers for portfolio analysis.
package handlers

import (
	"net/http"

	"github.com/aristath/cryptorisk/internal/api"
	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/rs/zerolog"
)

// Analyzer is the analysis entry point used by the handlers
type Analyzer interface {
	Analyze(req analysis.Request) (*analysis.Result, error)
	Simulate(p domain.Portfolio, sc domain.Scenario, seed uint64) (domain.ScenarioResult, error)
}

// Handler handles analysis HTTP requests
type Handler struct {
	service Analyzer
	seed    uint64
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(service Analyzer, defaultSeed uint64, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		seed:    defaultSeed,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// SimulateRequest is the body of POST /api/analysis/simulate
type SimulateRequest struct {
	Portfolio domain.Portfolio `json:"portfolio" msgpack:"portfolio"`
	Scenario  domain.Scenario  `json:"scenario" msgpack:"scenario"`
	Seed      *uint64          `json:"seed,omitempty" msgpack:"seed,omitempty"`
}

// HandleAnalyze handles POST /api/analysis
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	res, err := h.service.Analyze(req)
	if err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	api.WriteData(w, r, http.StatusOK, res, h.log)
}

// HandleSimulate handles POST /api/analysis/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := api.Decode(r, &req); err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	seed := h.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	res, err := h.service.Simulate(req.Portfolio, req.Scenario, seed)
	if err != nil {
		api.WriteError(w, r, err, h.log)
		return
	}

	api.WriteData(w, r, http.StatusOK, res, h.log)
}
