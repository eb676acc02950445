package services

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/importer"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
)

type ImportInput struct {
	Filename    string
	Title       string
	Description *string
	LanguageID  int64
}

type ImportResult struct {
	Flashcard *models.Flashcard `json:"flashcard"`
	Imported  int               `json:"imported"`
	Skipped   int               `json:"skipped"`
	Errors    []string          `json:"errors"`
}

// ImportService creates flashcards from spreadsheet uploads
type ImportService interface {
	ImportFlashcard(ctx context.Context, r io.Reader, in ImportInput) (*ImportResult, error)
}

type importService struct {
	flashcards FlashcardService
}

// NewImportService creates a new ImportService
func NewImportService(flashcards FlashcardService) ImportService {
	return &importService{flashcards: flashcards}
}

func (s *importService) ImportFlashcard(ctx context.Context, r io.Reader, in ImportInput) (*ImportResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"filename":    in.Filename,
		"language_id": in.LanguageID,
	})
	log.Info("importing flashcard from file")

	if strings.TrimSpace(in.Filename) == "" {
		return nil, errors.NewValidationError("file", "is required")
	}

	parsed, err := importer.ReadWords(r, in.Filename)
	switch {
	case stderrors.Is(err, importer.ErrUnsupportedFormat):
		return nil, errors.NewValidationError("file", err.Error())
	case stderrors.Is(err, importer.ErrNoWords):
		return nil, errors.NewValidationError("file", err.Error())
	case err != nil:
		log.Warn("failed to read upload: %v", err)
		return nil, errors.NewBadRequestError("could not read uploaded file")
	}

	card, err := s.flashcards.Create(ctx, CreateFlashcardInput{
		Title:       in.Title,
		Description: in.Description,
		Words:       parsed.Words,
		LanguageID:  in.LanguageID,
	})
	if err != nil {
		return nil, err
	}

	log.Info("flashcard imported: id=%s, words=%d, skipped=%d", card.ID, len(parsed.Words), parsed.Skipped)
	return &ImportResult{
		Flashcard: card,
		Imported:  len(parsed.Words),
		Skipped:   parsed.Skipped,
		Errors:    parsed.Errors,
	}, nil
}
