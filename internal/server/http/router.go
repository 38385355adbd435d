package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers routes and the middleware stack. Error bodies are JSON
// on every path, including 404 and 405, so that agents probing candidate
// endpoints never mistake this server for a captive portal.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/ping", h.ping)
	r.Get("/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(h.apiKeyMiddleware)
		r.Get("/verify-key", h.verifyKey)
		r.Post("/api/software-requests", h.createRequest)
		r.Get("/api/software-requests/{id}", h.getRequest)
		r.Delete("/api/software-requests/{id}", h.deleteRequest)
	})

	r.Post("/api/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.reviewerMiddleware)
		r.Get("/api/software-requests", h.listRequests)
		r.Post("/api/software-requests/{id}/decision", h.decideRequest)
	})

	return r
}
