package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/vytor/lingoflash/internal/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type DB struct {
	*sqlx.DB
	log *logger.Logger
}

// Open connects to the configured database and applies pending migrations.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	log := logger.Default().WithPrefix("db").WithField("driver", driver)

	sqlxDB, err := connect(driver, dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}

	db := &DB{DB: sqlxDB, log: log}

	if err := db.PingContext(ctx); err != nil {
		log.Error("database ping failed: %v", err)
		_ = sqlxDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Debug("applying migrations")
	if err := db.Migrate(ctx); err != nil {
		log.Error("failed to apply migrations: %v", err)
		_ = sqlxDB.Close()
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

func connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		sqlxDB, err := sqlx.Open("sqlite3", sqliteDSN(dsn))
		if err != nil {
			return nil, err
		}
		sqlxDB.SetMaxOpenConns(1) // single writer
		return sqlxDB, nil
	case DriverPostgres:
		sqlxDB, err := sqlx.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		sqlxDB.SetMaxOpenConns(25)
		sqlxDB.SetMaxIdleConns(5)
		return sqlxDB, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqliteDSN appends the connection pragmas unless the caller already set them.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"
}

// Migrate runs every pending migration for the connection's dialect.
func (db *DB) Migrate(ctx context.Context) error {
	return Migrate(ctx, db.DB)
}

// Migrate applies the embedded migrations for sqlxDB's driver.
func Migrate(ctx context.Context, sqlxDB *sqlx.DB) error {
	log := logger.FromContext(ctx).WithPrefix("db")

	dialect, dir, err := dialectFor(sqlxDB.DriverName())
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migrations dir %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, sqlxDB.DB, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		log.Info("migration %s applied in %v", r.Source.Path, r.Duration)
	}
	return nil
}

func dialectFor(driverName string) (goose.Dialect, string, error) {
	switch driverName {
	case "sqlite3":
		return goose.DialectSQLite3, "migrations/sqlite", nil
	case "pgx", "postgres":
		return goose.DialectPostgres, "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driverName)
	}
}
