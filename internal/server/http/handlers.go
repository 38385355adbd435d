// Package http is the server's HTTP adapter: routing, middleware, and
// JSON encoding on top of the application services.
package http

import (
	"net/http"
	"time"

	"github.com/softgatehq/softgate/internal/logging"
	"github.com/softgatehq/softgate/internal/server/services"
)

// Handler binds the application services to HTTP routes.
type Handler struct {
	tenants  *services.TenantService
	requests *services.RequestService
	review   *services.ReviewService
	logger   logging.Logger
}

func NewHandler(tenants *services.TenantService, requests *services.RequestService, review *services.ReviewService, logger logging.Logger) *Handler {
	return &Handler{
		tenants:  tenants,
		requests: requests,
		review:   review,
		logger:   logger.With("module", "http"),
	}
}

// ping is the reachability probe: any JSON body on a 2xx counts, so keep it
// minimal and unmistakably not HTML.
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "softgate",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// verifyKey confirms an API key resolves to a team without side effects
// beyond the usual lastUsedAt touch.
func (h *Handler) verifyKey(w http.ResponseWriter, r *http.Request) {
	team := teamFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    true,
		"teamId":   team.ID,
		"teamName": team.Name,
	})
}
