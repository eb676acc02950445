package repository

import (
	"context"
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// FlashcardRepository handles flashcard data access
type FlashcardRepository interface {
	Create(ctx context.Context, flashcard *models.Flashcard) error
	Update(ctx context.Context, id string, patch models.FlashcardPatch, updatedAt time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Flashcard, error)
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	TouchLastStudied(ctx context.Context, id string, at time.Time) error
}

// LanguageRepository handles language data access
type LanguageRepository interface {
	List(ctx context.Context) ([]models.Language, error)
	FindByID(ctx context.Context, id int64) (*models.Language, error)
	FindByCode(ctx context.Context, code string) (*models.Language, error)
}

// StudySessionRepository handles study session data access
type StudySessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	ListByFlashcard(ctx context.Context, flashcardID string, limit int) ([]models.StudySession, error)
}

// WordAnalyticsRepository handles per-word analytics data access
type WordAnalyticsRepository interface {
	// Upsert creates the (flashcard, word) row with wrong_count=1 or increments
	// wrong_count by one, overwriting mnemonic and difficulty only when supplied.
	Upsert(ctx context.Context, flashcardID string, entry models.WordAnalysis, at time.Time) (*models.WordAnalytics, error)
	ListByFlashcard(ctx context.Context, flashcardID string) ([]models.WordAnalytics, error)
}

// TxManager runs fn inside one transaction; repositories called with the
// callback's context take part in it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
