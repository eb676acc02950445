package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/services"
)

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var tallies *models.SessionTallies
	if err := decodeJSON(w, r, &tallies); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Study.SaveSession(r.Context(), chi.URLParam(r, "id"), tallies)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, session)
}

func (s *Server) handleAnalyzeSession(w http.ResponseWriter, r *http.Request) {
	var tallies *models.SessionTallies
	if err := decodeJSON(w, r, &tallies); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Study.AnalyzeSession(r.Context(), chi.URLParam(r, "id"), tallies)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (s *Server) handleStudyRun(w http.ResponseWriter, r *http.Request) {
	var run services.StudyRun
	if err := decodeJSON(w, r, &run); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Study.RunSession(r.Context(), chi.URLParam(r, "id"), run)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, res)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}

	sessions, err := s.Study.ListSessions(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, sessions)
}

func (s *Server) handleWordAnalytics(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Study.WordAnalytics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rows)
}
