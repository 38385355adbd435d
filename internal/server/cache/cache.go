// Package cache provides a short-lived credential cache sitting in front of
// the API-key store. Only positive lookups are cached; expiry policy stays
// with the tenant resolver.
package cache

import (
	"context"

	"github.com/softgatehq/softgate/internal/server/models"
)

// CredentialCache caches resolved API keys by their digest. A failed backend
// is treated as a miss; callers never see cache errors.
type CredentialCache interface {
	Get(ctx context.Context, hash string) (*models.APIKey, bool)
	Set(ctx context.Context, hash string, key *models.APIKey)
}
