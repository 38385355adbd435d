package apikeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/dbx"
	"github.com/softgatehq/softgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	query :=
		`SELECT id, team_id, hashed_key, owner_email, owner_role, expires_at, last_used_at, created_at FROM api_keys
		 WHERE hashed_key = $1
		 `

	key := &models.APIKey{}
	err := r.db.QueryRowContext(ctx, query, hash).Scan(
		&key.ID, &key.TeamID, &key.HashedKey, &key.OwnerEmail, &key.OwnerRole,
		&key.ExpiresAt, &key.LastUsedAt, &key.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return key, nil
}

func (r *PostgresRepository) TouchLastUsed(ctx context.Context, id string, now time.Time) error {
	query :=
		`UPDATE api_keys SET last_used_at = $2
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
