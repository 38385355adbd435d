package requests

import (
	"context"
	"time"

	"github.com/softgatehq/softgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, req *models.SoftwareRequest) (*models.SoftwareRequest, error)
	GetByID(ctx context.Context, teamID, id string) (*models.SoftwareRequest, error)
	ListByStatus(ctx context.Context, teamID string, status models.Status) ([]*models.SoftwareRequest, error)

	// ApplyDecision moves a pending request to a terminal status together
	// with the answers that justify it. It fails with ErrTerminalState when
	// the request already left pending, so a decision can be applied at most
	// once.
	ApplyDecision(ctx context.Context, id string, status models.Status, answers models.AnswerSet, narrative string, decidedAt time.Time) error

	Delete(ctx context.Context, teamID, id string) error
}
