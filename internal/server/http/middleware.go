package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/server/models"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyTeam      ctxKey = "team"
	ctxKeyAPIKey    ctxKey = "api_key"
	ctxKeyReviewer  ctxKey = "reviewer"
)

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

func teamFromContext(ctx context.Context) *models.Team {
	team, _ := ctx.Value(ctxKeyTeam).(*models.Team)
	return team
}

func apiKeyFromContext(ctx context.Context) *models.APIKey {
	key, _ := ctx.Value(ctxKeyAPIKey).(*models.APIKey)
	return key
}

func reviewerFromContext(ctx context.Context) *models.Reviewer {
	reviewer, _ := ctx.Value(ctxKeyReviewer).(*models.Reviewer)
	return reviewer
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error(r.Context(), "panic recovered",
					"request_id", requestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}

		h.logger.Info(r.Context(), "http request",
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// apiKeyMiddleware resolves the presented X-API-Key into a team identity and
// member context, failing closed with 401.
func (h *Handler) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		team, key, err := h.tenants.Resolve(r.Context(), r.Header.Get(common.APIKeyHeaderName))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyTeam, team)
		ctx = context.WithValue(ctx, ctxKeyAPIKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// reviewerMiddleware authenticates the Bearer session token of the manual
// review surface.
func (h *Handler) reviewerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		reviewer, err := h.review.Authenticate(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyReviewer, reviewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
