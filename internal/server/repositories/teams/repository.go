package teams

import (
	"context"

	"github.com/softgatehq/softgate/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Team, error)
}
