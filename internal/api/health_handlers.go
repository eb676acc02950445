package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/lingoflash/internal/logger"
)

// handleHealth is the liveness probe; it answers as long as the process runs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady returns 200 when the database answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.DB == nil {
		writeData(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		writeFailure(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unavailable")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ready"})
}
