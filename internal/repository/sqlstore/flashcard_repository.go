package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type flashcardRepository struct {
	db *sqlx.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sqlx.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

type flashcardRow struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	Description   *string         `db:"description"`
	Notes         *string         `db:"notes"`
	Words         models.WordList `db:"words"`
	LanguageID    int64           `db:"language_id"`
	LanguageCode  string          `db:"language_code"`
	LanguageName  string          `db:"language_name"`
	LastStudiedAt *time.Time      `db:"last_studied_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r flashcardRow) toModel() models.Flashcard {
	return models.Flashcard{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Notes:       r.Notes,
		Words:       r.Words,
		LanguageID:  r.LanguageID,
		Language: &models.Language{
			ID:   r.LanguageID,
			Code: r.LanguageCode,
			Name: r.LanguageName,
		},
		LastStudiedAt: r.LastStudiedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func selectFlashcards() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"f.id", "f.title", "f.description", "f.notes", "f.words", "f.language_id",
		"l.code AS language_code", "l.name AS language_name",
		"f.last_studied_at", "f.created_at", "f.updated_at",
	).
		From("flashcards f").
		Join("languages l ON l.id = f.language_id")
}

func (r *flashcardRepository) Create(ctx context.Context, c *models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: id=%s, language_id=%d, words=%d", c.ID, c.LanguageID, len(c.Words))

	if c.Words == nil {
		c.Words = models.WordList{}
	}

	q := db.QuerierFromCtx(ctx, r.db)
	_, err := q.ExecContext(ctx, q.Rebind(`
INSERT INTO flashcards (id, title, description, notes, words, language_id, last_studied_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`), c.ID, c.Title, c.Description, c.Notes, c.Words, c.LanguageID, c.LastStudiedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return err
	}
	log.Debug("flashcard inserted: id=%s", c.ID)
	return nil
}

func (r *flashcardRepository) Update(ctx context.Context, id string, patch models.FlashcardPatch, updatedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%s", id)

	b := sqlBuilder.Update("flashcards").Set("updated_at", updatedAt).Where(squirrel.Eq{"id": id})
	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.Notes != nil {
		b = b.Set("notes", *patch.Notes)
	}
	if patch.Words != nil {
		b = b.Set("words", *patch.Words)
	}
	if patch.LanguageID != nil {
		b = b.Set("language_id", *patch.LanguageID)
	}

	n, err := execBuilt(ctx, db.QuerierFromCtx(ctx, r.db), b)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
		return err
	}
	log.Debug("flashcard updated: id=%s, rows=%d", id, n)
	return nil
}

func (r *flashcardRepository) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%s", id)

	n, err := execBuilt(ctx, db.QuerierFromCtx(ctx, r.db), sqlBuilder.Delete("flashcards").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return false, err
	}
	return n > 0, nil
}

func (r *flashcardRepository) FindByID(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("fetching flashcard: id=%s", id)

	query, args, err := selectFlashcards().Where(squirrel.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	q := db.QuerierFromCtx(ctx, r.db)
	var row flashcardRow
	err = q.GetContext(ctx, &row, q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	c := row.toModel()
	return &c, nil
}

func (r *flashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards: language_id=%d, limit=%d, offset=%d", filter.LanguageID, filter.Limit, filter.Offset)

	b := selectFlashcards().OrderBy("f.created_at DESC", "f.id")
	if filter.LanguageID > 0 {
		b = b.Where(squirrel.Eq{"f.language_id": filter.LanguageID})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}

	var rows []flashcardRow
	if err := selectBuilt(ctx, db.QuerierFromCtx(ctx, r.db), &rows, b); err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}

	cards := make([]models.Flashcard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toModel())
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, nil
}

func (r *flashcardRepository) TouchLastStudied(ctx context.Context, id string, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("touching last studied: id=%s", id)

	q := db.QuerierFromCtx(ctx, r.db)
	res, err := q.ExecContext(ctx, q.Rebind(`UPDATE flashcards SET last_studied_at = ? WHERE id = ?`), at, id)
	if err != nil {
		log.Error("failed to update last_studied_at: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Warn("last_studied_at not updated, flashcard missing: id=%s", id)
		return sql.ErrNoRows
	}
	return nil
}
