package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/softgatehq/softgate/internal/server/migrations"
	"github.com/softgatehq/softgate/internal/server/repositories/apikeys"
	"github.com/softgatehq/softgate/internal/server/repositories/requests"
	"github.com/softgatehq/softgate/internal/server/repositories/reviewers"
	"github.com/softgatehq/softgate/internal/server/repositories/teams"
)

// PostgresRepositoryManager owns the pgx connection pool and the concrete
// repositories built on it.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing migration failures.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewPostgresRepositoryManager opens the DSN and applies embedded migrations.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, fmt.Errorf("goose dialect error: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &PostgresRepositoryManager{db: db}, nil
}

func (m *PostgresRepositoryManager) DB() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Teams() teams.Repository {
	return teams.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) APIKeys() apikeys.Repository {
	return apikeys.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Reviewers() reviewers.Repository {
	return reviewers.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Requests() requests.Repository {
	return requests.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Close(ctx context.Context) error {
	return m.db.Close()
}
