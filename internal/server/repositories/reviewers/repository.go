package reviewers

import (
	"context"

	"github.com/softgatehq/softgate/internal/server/models"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*models.Reviewer, error)
	GetByID(ctx context.Context, id string) (*models.Reviewer, error)
}
