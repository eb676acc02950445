package sqlstore

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type wordAnalyticsRepository struct {
	db *sqlx.DB
}

// NewWordAnalyticsRepository creates a new WordAnalyticsRepository implementation
func NewWordAnalyticsRepository(db *sqlx.DB) repository.WordAnalyticsRepository {
	return &wordAnalyticsRepository{db: db}
}

// wrong_count is incremented by the database, never read-modify-written.
const upsertWordAnalytics = `
INSERT INTO word_analytics (flashcard_id, word_key, correct_count, wrong_count, ai_mnemonic, difficulty_level, created_at, updated_at)
VALUES (?, ?, 0, 1, ?, ?, ?, ?)
ON CONFLICT (flashcard_id, word_key) DO UPDATE SET
    wrong_count      = word_analytics.wrong_count + 1,
    ai_mnemonic      = COALESCE(excluded.ai_mnemonic, word_analytics.ai_mnemonic),
    difficulty_level = COALESCE(excluded.difficulty_level, word_analytics.difficulty_level),
    updated_at       = excluded.updated_at
`

var wordAnalyticsColumns = []string{
	"id", "flashcard_id", "word_key", "correct_count", "wrong_count", "ai_mnemonic", "difficulty_level", "created_at", "updated_at",
}

func (r *wordAnalyticsRepository) Upsert(ctx context.Context, flashcardID string, entry models.WordAnalysis, at time.Time) (*models.WordAnalytics, error) {
	log := logger.FromContext(ctx).WithPrefix("word_analytics_repo")
	log.Debug("upserting word analytics: flashcard_id=%s, word_key=%s", flashcardID, entry.WordKey)

	q := db.QuerierFromCtx(ctx, r.db)
	if _, err := q.ExecContext(ctx, q.Rebind(upsertWordAnalytics),
		flashcardID, entry.WordKey, entry.AIMnemonic, entry.DifficultyLevel, at, at); err != nil {
		log.Error("failed to upsert word analytics: %v", err)
		return nil, err
	}

	query, args, err := sqlBuilder.Select(wordAnalyticsColumns...).
		From("word_analytics").
		Where(squirrel.Eq{"flashcard_id": flashcardID, "word_key": entry.WordKey}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var wa models.WordAnalytics
	if err := q.GetContext(ctx, &wa, q.Rebind(query), args...); err != nil {
		log.Error("failed to reload word analytics: %v", err)
		return nil, err
	}
	log.Debug("word analytics upserted: id=%d, wrong_count=%d", wa.ID, wa.WrongCount)
	return &wa, nil
}

func (r *wordAnalyticsRepository) ListByFlashcard(ctx context.Context, flashcardID string) ([]models.WordAnalytics, error) {
	log := logger.FromContext(ctx).WithPrefix("word_analytics_repo")
	log.Debug("listing word analytics: flashcard_id=%s", flashcardID)

	b := sqlBuilder.Select(wordAnalyticsColumns...).
		From("word_analytics").
		Where(squirrel.Eq{"flashcard_id": flashcardID}).
		OrderBy("wrong_count DESC", "word_key")

	var out []models.WordAnalytics
	if err := selectBuilt(ctx, db.QuerierFromCtx(ctx, r.db), &out, b); err != nil {
		log.Error("failed to list word analytics: %v", err)
		return nil, err
	}
	return out, nil
}
