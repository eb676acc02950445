//go:build integration

package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vytor/lingoflash/internal/db"
)

var (
	pgOnce    sync.Once
	pgDSN     string
	pgInitErr error
)

// NewPostgresDB starts a shared PostgreSQL container (once per test binary),
// applies migrations and returns a fresh connection closed on cleanup.
func NewPostgresDB(t *testing.T) *sqlx.DB {
	t.Helper()

	pgOnce.Do(func() {
		pgDSN, pgInitErr = startPostgres()
	})
	if pgInitErr != nil {
		t.Fatalf("testutil: failed to start postgres: %v", pgInitErr)
	}

	sqlxDB, err := sqlx.Open("pgx", pgDSN)
	if err != nil {
		t.Fatalf("testutil: open postgres: %v", err)
	}
	t.Cleanup(func() { _ = sqlxDB.Close() })
	return sqlxDB
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "lingo",
				"POSTGRES_PASSWORD": "lingo",
				"POSTGRES_DB":       "lingoflash",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://lingo:lingo@%s:%s/lingoflash?sslmode=disable", host, port.Port())

	sqlxDB, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer sqlxDB.Close()

	if err := sqlxDB.PingContext(ctx); err != nil {
		return "", fmt.Errorf("ping: %w", err)
	}
	if err := db.Migrate(ctx, sqlxDB); err != nil {
		return "", err
	}
	return dsn, nil
}
