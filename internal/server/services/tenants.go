// Package services contains the server's application services: tenant
// resolution, request intake and decisions, and the manual review surface.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/logging"
	"github.com/softgatehq/softgate/internal/server/auth"
	"github.com/softgatehq/softgate/internal/server/cache"
	"github.com/softgatehq/softgate/internal/server/models"
	"github.com/softgatehq/softgate/internal/server/repositories/apikeys"
	"github.com/softgatehq/softgate/internal/server/repositories/teams"
)

// TenantService maps presented API keys to team identities. It fails closed:
// any doubt about a credential resolves to ErrorUnauthorized.
type TenantService struct {
	keys   apikeys.Repository
	teams  teams.Repository
	cache  cache.CredentialCache
	logger logging.Logger
	now    func() time.Time
}

func NewTenantService(keys apikeys.Repository, teams teams.Repository, c cache.CredentialCache, logger logging.Logger) *TenantService {
	return &TenantService{
		keys:   keys,
		teams:  teams,
		cache:  c,
		logger: logger.With("module", "tenants"),
		now:    time.Now,
	}
}

// Resolve authenticates a raw API key and returns the owning team together
// with the key's member context. On success the credential's lastUsedAt is
// updated; that write is at-least-once and its failure never fails the
// request.
func (s *TenantService) Resolve(ctx context.Context, rawKey string) (*models.Team, *models.APIKey, error) {
	if rawKey == "" {
		return nil, nil, common.ErrorUnauthorized
	}

	hash := auth.HashKey(rawKey)

	key, cached := s.cache.Get(ctx, hash)
	if !cached {
		var err error
		key, err = s.keys.GetByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, nil, common.ErrorUnauthorized
			}
			return nil, nil, fmt.Errorf("credential lookup: %w", err)
		}
	}

	// Strict future-only comparison: a key expiring exactly now is expired.
	// Checked on every request so cached credentials expire on time.
	if key.ExpiresAt != nil && !key.ExpiresAt.After(s.now()) {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrKeyExpired, common.ErrorUnauthorized)
	}

	if !cached {
		s.cache.Set(ctx, hash, key)
	}

	if err := s.keys.TouchLastUsed(ctx, key.ID, s.now()); err != nil {
		s.logger.Warn(ctx, "last-used update failed", "key_id", key.ID, "error", err)
	}

	team, err := s.teams.GetByID(ctx, key.TeamID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// A key pointing at a missing team is a store invariant
			// violation; treat it as a bad credential.
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, fmt.Errorf("team lookup: %w", err)
	}

	return team, key, nil
}
