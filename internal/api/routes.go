package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(corsMiddleware(s.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)

		r.Get("/languages", s.handleListLanguages)
		r.Get("/languages/{code}", s.handleGetLanguage)

		r.Route("/flashcards", func(r chi.Router) {
			r.Get("/", s.handleListFlashcards)
			r.Post("/", s.handleCreateFlashcard)
			r.Post("/import", s.handleImportFlashcard)
			r.Get("/language/{languageId}", s.handleListFlashcardsByLanguage)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetFlashcard)
				r.Put("/", s.handleUpdateFlashcard)
				r.Delete("/", s.handleDeleteFlashcard)

				r.Post("/save-session", s.handleSaveSession)
				r.Post("/analyze", s.handleAnalyzeSession)
				r.Post("/study-run", s.handleStudyRun)
				r.Get("/sessions", s.handleListSessions)
				r.Get("/analytics", s.handleWordAnalytics)
			})
		})
	})
	return r
}
