// Package repomanager opens the server database, applies migrations, and
// hands out the aggregate repositories.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/softgatehq/softgate/internal/server/repositories/apikeys"
	"github.com/softgatehq/softgate/internal/server/repositories/requests"
	"github.com/softgatehq/softgate/internal/server/repositories/reviewers"
	"github.com/softgatehq/softgate/internal/server/repositories/teams"
)

// RepositoryManager is the set of persistence dependencies the services need.
type RepositoryManager interface {
	DB() *sql.DB
	Teams() teams.Repository
	APIKeys() apikeys.Repository
	Reviewers() reviewers.Repository
	Requests() requests.Repository
	Close(ctx context.Context) error
}
