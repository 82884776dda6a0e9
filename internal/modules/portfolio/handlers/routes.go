package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all snapshot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", h.HandleListWallets)

		r.Route("/{wallet}", func(r chi.Router) {
			r.Get("/", h.HandleHistory)
			r.Post("/", h.HandleSubmit)
			r.Get("/latest", h.HandleLatest)
			r.Get("/analysis", h.HandleAnalyze)
			r.Post("/analysis", h.HandleAnalyze)
		})
	})
}
