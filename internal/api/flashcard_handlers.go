package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/services"
)

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	filter, err := flashcardFilterFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Flashcards.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, cards)
}

func (s *Server) handleListFlashcardsByLanguage(w http.ResponseWriter, r *http.Request) {
	languageID, err := strconv.ParseInt(chi.URLParam(r, "languageId"), 10, 64)
	if err != nil || languageID <= 0 {
		handleError(w, r, errors.NewValidationError("languageId", "must be a positive integer"))
		return
	}

	filter, err := flashcardFilterFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	filter.LanguageID = languageID

	cards, err := s.Flashcards.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, cards)
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	card, err := s.Flashcards.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var in services.CreateFlashcardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Flashcards.Create(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, card)
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateFlashcardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Flashcards.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Flashcards.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("flashcard %s deleted", id)
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

func flashcardFilterFromQuery(r *http.Request) (models.FlashcardFilter, error) {
	var filter models.FlashcardFilter
	q := r.URL.Query()

	if v := q.Get("languageId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return filter, errors.NewValidationError("languageId", "must be a positive integer")
		}
		filter.LanguageID = id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.NewValidationError("limit", "must be a non-negative integer")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.NewValidationError("offset", "must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}
