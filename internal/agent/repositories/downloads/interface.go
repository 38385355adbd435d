package downloads

import (
	"context"

	"github.com/softgatehq/softgate/internal/agent/models"
)

// Repository describes the operations on the local download records.
// Implementations are backed by the agent's SQLite database.
type Repository interface {
	// Insert stores a freshly captured record. The record must be pending.
	Insert(ctx context.Context, d *models.PendingDownload) error

	// GetByID returns one record, common.ErrorNotFound when absent.
	GetByID(ctx context.Context, localID string) (*models.PendingDownload, error)

	// GetAll lists every record, newest first.
	GetAll(ctx context.Context) ([]*models.PendingDownload, error)

	// Update overwrites a record's mutable columns. Callers re-read the
	// latest row before updating (read-modify-write).
	Update(ctx context.Context, d *models.PendingDownload) error

	// DeleteByID removes a record, common.ErrorNotFound when absent.
	DeleteByID(ctx context.Context, localID string) error
}
