package sqlstore

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoflash/internal/db"
)

// Queries are built with '?' placeholders and rebound per driver at execution.
var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func selectBuilt(ctx context.Context, q db.Querier, dest any, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return q.SelectContext(ctx, dest, q.Rebind(query), args...)
}

func execBuilt(ctx context.Context, q db.Querier, b squirrel.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
