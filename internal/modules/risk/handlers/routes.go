package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all risk metrics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Post("/profile", h.HandleProfile)
		r.Post("/correlation", h.HandleCorrelation)
		r.Get("/classify/{symbol}", h.HandleClassify)
	})
}
