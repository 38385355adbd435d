package apikeys

import (
	"context"
	"time"

	"github.com/softgatehq/softgate/internal/server/models"
)

type Repository interface {
	// GetByHash returns the credential matching the digest, regardless of
	// expiry; expiry is the caller's policy decision.
	GetByHash(ctx context.Context, hash string) (*models.APIKey, error)

	// TouchLastUsed records credential usage. Safe to retry.
	TouchLastUsed(ctx context.Context, id string, now time.Time) error
}
