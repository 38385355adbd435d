// Package storage opens the agent's SQLite database and hands out the local
// repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/softgatehq/softgate/internal/agent/migrations"
	"github.com/softgatehq/softgate/internal/agent/repositories/downloads"
	"github.com/softgatehq/softgate/internal/agent/repositories/metadata"
)

type Repositories struct {
	Downloads downloads.Repository
	Metadata  metadata.Repository
	DB        *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Downloads: downloads.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
