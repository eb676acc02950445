package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.Languages.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, langs)
}

func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request) {
	lang, err := s.Languages.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, lang)
}
