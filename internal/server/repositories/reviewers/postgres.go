package reviewers

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

const columns = `id, team_id, email, password_hash, role, created_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Reviewer, error) {
	query := `SELECT ` + columns + ` FROM reviewers WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Reviewer, error) {
	query := `SELECT ` + columns + ` FROM reviewers WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Reviewer, error) {
	rv := &models.Reviewer{}
	err := row.Scan(&rv.ID, &rv.TeamID, &rv.Email, &rv.PasswordHash, &rv.Role, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rv, nil
}
