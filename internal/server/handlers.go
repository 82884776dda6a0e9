package server

import (
	"net/http"

	"github.com/aristath/cryptorisk/internal/api"
)

// Version is reported by the health endpoint.
var Version = "dev"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteData(w, r, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "cryptorisk",
	}, s.log)
}
