package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type CreateFlashcardInput struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Notes       *string           `json:"notes"`
	Words       []models.WordPair `json:"words"`
	LanguageID  int64             `json:"languageId"`
}

// UpdateFlashcardInput is a partial update; nil fields are left unchanged.
type UpdateFlashcardInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Notes       *string            `json:"notes"`
	Words       *[]models.WordPair `json:"words"`
	LanguageID  *int64             `json:"languageId"`
}

// FlashcardService handles flashcard-related business logic
type FlashcardService interface {
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	Create(ctx context.Context, in CreateFlashcardInput) (*models.Flashcard, error)
	Update(ctx context.Context, id string, in UpdateFlashcardInput) (*models.Flashcard, error)
	Delete(ctx context.Context, id string) error
}

type flashcardService struct {
	flashcards repository.FlashcardRepository
	languages  repository.LanguageRepository
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(flashcards repository.FlashcardRepository, languages repository.LanguageRepository) FlashcardService {
	return &flashcardService{flashcards: flashcards, languages: languages}
}

func (s *flashcardService) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing flashcards: language_id=%d", filter.LanguageID)

	if filter.LanguageID < 0 {
		return nil, errors.NewValidationError("languageId", "must be positive")
	}

	cards, err := s.flashcards.List(ctx, filter)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

func (s *flashcardService) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting flashcard: id=%s", id)

	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("id", "is required")
	}

	card, err := s.flashcards.FindByID(ctx, id)
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", id)
	}
	return card, nil
}

func (s *flashcardService) Create(ctx context.Context, in CreateFlashcardInput) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating flashcard: title=%q, language_id=%d, words=%d", in.Title, in.LanguageID, len(in.Words))

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.NewValidationError("title", "is required")
	}
	if in.LanguageID <= 0 {
		return nil, errors.NewValidationError("languageId", "is required")
	}
	if err := validateWords(in.Words); err != nil {
		return nil, err
	}
	if err := s.requireLanguage(ctx, in.LanguageID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &models.Flashcard{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		Notes:       in.Notes,
		Words:       models.WordList(in.Words),
		LanguageID:  in.LanguageID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.flashcards.Create(ctx, card); err != nil {
		log.Error("failed to create flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("flashcard created: id=%s", card.ID)
	return s.Get(ctx, card.ID)
}

func (s *flashcardService) Update(ctx context.Context, id string, in UpdateFlashcardInput) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating flashcard: id=%s", id)

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	var patch models.FlashcardPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, errors.NewValidationError("title", "cannot be empty")
		}
		patch.Title = &title
	}
	if in.Words != nil {
		if err := validateWords(*in.Words); err != nil {
			return nil, err
		}
		words := models.WordList(*in.Words)
		patch.Words = &words
	}
	if in.LanguageID != nil {
		if err := s.requireLanguage(ctx, *in.LanguageID); err != nil {
			return nil, err
		}
		patch.LanguageID = in.LanguageID
	}
	patch.Description = in.Description
	patch.Notes = in.Notes

	if !patch.Empty() {
		if err := s.flashcards.Update(ctx, id, patch, time.Now().UTC()); err != nil {
			log.Error("failed to update flashcard: %v", err)
			return nil, errors.NewInternalError(err)
		}
		log.Info("flashcard updated: id=%s", id)
	}
	return s.Get(ctx, id)
}

func (s *flashcardService) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting flashcard: id=%s", id)

	if strings.TrimSpace(id) == "" {
		return errors.NewValidationError("id", "is required")
	}

	deleted, err := s.flashcards.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return errors.NewInternalError(err)
	}
	if !deleted {
		return errors.NewNotFoundError("flashcard", id)
	}
	log.Info("flashcard deleted: id=%s", id)
	return nil
}

func (s *flashcardService) requireLanguage(ctx context.Context, id int64) error {
	lang, err := s.languages.FindByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to look up language: %v", err)
		return errors.NewInternalError(err)
	}
	if lang == nil {
		return errors.NewValidationError("languageId", fmt.Sprintf("unknown language %d", id))
	}
	return nil
}

func validateWords(words []models.WordPair) error {
	if len(words) == 0 {
		return errors.NewValidationError("words", "must be a non-empty array")
	}
	for i, w := range words {
		if strings.TrimSpace(w.Front) == "" || strings.TrimSpace(w.Back) == "" {
			return errors.NewValidationError(fmt.Sprintf("words[%d]", i), "must have front and back")
		}
	}
	return nil
}
