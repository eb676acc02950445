package sqlstore

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type studySessionRepository struct {
	db *sqlx.DB
}

// NewStudySessionRepository creates a new StudySessionRepository implementation
func NewStudySessionRepository(db *sqlx.DB) repository.StudySessionRepository {
	return &studySessionRepository{db: db}
}

func (r *studySessionRepository) Create(ctx context.Context, s *models.StudySession) error {
	log := logger.FromContext(ctx).WithPrefix("study_session_repo")
	log.Debug("inserting study session: flashcard_id=%s, known=%d, unknown=%d, skipped=%d",
		s.FlashcardID, s.KnownCount, s.UnknownCount, s.SkippedCount)

	q := db.QuerierFromCtx(ctx, r.db)
	_, err := q.ExecContext(ctx, q.Rebind(`
INSERT INTO study_sessions (id, flashcard_id, known_count, unknown_count, skipped_count, ai_feedback, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`), s.ID, s.FlashcardID, s.KnownCount, s.UnknownCount, s.SkippedCount, s.AIFeedback, s.CreatedAt)
	if err != nil {
		log.Error("failed to insert study session: %v", err)
		return err
	}
	log.Debug("study session inserted: id=%s", s.ID)
	return nil
}

func (r *studySessionRepository) ListByFlashcard(ctx context.Context, flashcardID string, limit int) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("study_session_repo")
	log.Debug("listing study sessions: flashcard_id=%s, limit=%d", flashcardID, limit)

	b := sqlBuilder.Select("id", "flashcard_id", "known_count", "unknown_count", "skipped_count", "ai_feedback", "created_at").
		From("study_sessions").
		Where(squirrel.Eq{"flashcard_id": flashcardID}).
		OrderBy("created_at DESC", "id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	var sessions []models.StudySession
	if err := selectBuilt(ctx, db.QuerierFromCtx(ctx, r.db), &sessions, b); err != nil {
		log.Error("failed to list study sessions: %v", err)
		return nil, err
	}
	return sessions, nil
}
