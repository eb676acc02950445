package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/lingoflash/internal/logger"
)

// Querier is implemented by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type txCtxKey struct{}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// QuerierFromCtx returns the transaction carried by ctx, or db when there is none.
func QuerierFromCtx(ctx context.Context, db *sqlx.DB) Querier {
	if tx, ok := ctx.Value(txCtxKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// InTx reports whether ctx carries a transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(*sqlx.Tx)
	return ok
}

// TxManager runs callbacks inside a single database transaction. Repositories
// called with the callback's context join that transaction.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back on error or panic.
// A nested call reuses the outer transaction.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}

	log := logger.FromContext(ctx).WithPrefix("tx")

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback failed: %v", rbErr)
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	log.Debug("transaction committed")
	return nil
}
