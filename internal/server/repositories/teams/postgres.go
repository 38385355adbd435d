package teams

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query :=
		`SELECT id, name, slug, created_at FROM teams
		 WHERE id = $1
		 `

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.Slug, &team.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return team, nil
}
