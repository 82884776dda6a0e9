// Package handlers provides HTTP handlers for wallet snapshots.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/cryptorisk/internal/api"
	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// Handler handles snapshot HTTP requests
type Handler struct {
	service *portfolio.PortfolioService
	log     zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(service *portfolio.PortfolioService, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// SubmitRequest is the body of POST /api/snapshots/{wallet}
type SubmitRequest struct {
	Portfolio  domain.Portfolio `json:"portfolio" msgpack:"portfolio"`
	CapturedAt time.Time        `json:"captured_at,omitempty" msgpack:"captured_at,omitempty"`
}

// HandleListWallets handles GET /api/snapshots
func (h *Handler) HandleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.service.Wallets()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteData(w, r, http.StatusOK, map[string]interface{}{
		"wallets": wallets,
		"count":   len(wallets),
	}, h.log)
}

// HandleSubmit handles POST /api/snapshots/{wallet}
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")

	var req SubmitRequest
	if err := api.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.service.Submit(wallet, req.Portfolio, req.CapturedAt)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteData(w, r, http.StatusCreated, snap, h.log)
}

// HandleHistory handles GET /api/snapshots/{wallet}?limit=N
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidInput))
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	snaps, err := h.service.History(wallet, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteData(w, r, http.StatusOK, snaps, h.log)
}

// HandleLatest handles GET /api/snapshots/{wallet}/latest
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Latest(chi.URLParam(r, "wallet"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteData(w, r, http.StatusOK, snap, h.log)
}

// HandleAnalyze handles GET and POST /api/snapshots/{wallet}/analysis.
// A POST body may carry scenarios and overrides; its portfolio is ignored.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var template analysis.Request
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		if err := api.Decode(r, &template); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	res, err := h.service.AnalyzeLatest(chi.URLParam(r, "wallet"), template)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteData(w, r, http.StatusOK, res, h.log)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, portfolio.ErrSnapshotNotFound) {
		api.WriteStatusError(w, r, http.StatusNotFound, err.Error(), h.log)
		return
	}
	api.WriteError(w, r, err, h.log)
}
