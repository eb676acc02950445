package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type languageRepository struct {
	db *sqlx.DB
}

// NewLanguageRepository creates a new LanguageRepository implementation
func NewLanguageRepository(db *sqlx.DB) repository.LanguageRepository {
	return &languageRepository{db: db}
}

func (r *languageRepository) List(ctx context.Context) ([]models.Language, error) {
	log := logger.FromContext(ctx).WithPrefix("language_repo")
	log.Debug("listing languages")

	var langs []models.Language
	if err := selectBuilt(ctx, db.QuerierFromCtx(ctx, r.db), &langs,
		sqlBuilder.Select("id", "code", "name").From("languages").OrderBy("name")); err != nil {
		log.Error("failed to list languages: %v", err)
		return nil, err
	}
	return langs, nil
}

func (r *languageRepository) FindByID(ctx context.Context, id int64) (*models.Language, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

func (r *languageRepository) FindByCode(ctx context.Context, code string) (*models.Language, error) {
	return r.findOne(ctx, squirrel.Eq{"code": code})
}

func (r *languageRepository) findOne(ctx context.Context, where squirrel.Eq) (*models.Language, error) {
	log := logger.FromContext(ctx).WithPrefix("language_repo")
	log.Debug("fetching language: %v", where)

	query, args, err := sqlBuilder.Select("id", "code", "name").From("languages").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	q := db.QuerierFromCtx(ctx, r.db)
	var lang models.Language
	err = q.GetContext(ctx, &lang, q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get language: %v", err)
		return nil, err
	}
	return &lang, nil
}
