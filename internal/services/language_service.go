package services

import (
	"context"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// LanguageService handles language lookups
type LanguageService interface {
	List(ctx context.Context) ([]models.Language, error)
	GetByCode(ctx context.Context, code string) (*models.Language, error)
}

type languageService struct {
	languages repository.LanguageRepository
}

// NewLanguageService creates a new LanguageService
func NewLanguageService(languages repository.LanguageRepository) LanguageService {
	return &languageService{languages: languages}
}

func (s *languageService) List(ctx context.Context) ([]models.Language, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing languages")

	langs, err := s.languages.List(ctx)
	if err != nil {
		log.Error("failed to list languages: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if langs == nil {
		langs = []models.Language{}
	}
	return langs, nil
}

func (s *languageService) GetByCode(ctx context.Context, code string) (*models.Language, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting language: code=%s", code)

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.NewValidationError("code", "is required")
	}

	lang, err := s.languages.FindByCode(ctx, code)
	if err != nil {
		log.Error("failed to get language: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if lang == nil {
		return nil, errors.NewNotFoundError("language", code)
	}
	return lang, nil
}
