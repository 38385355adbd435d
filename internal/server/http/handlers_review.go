package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/softgatehq/softgate/internal/decision"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.review.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// listRequests serves the review queue. Only the pending slice is exposed;
// decided requests are reachable through the agent poll surface.
func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" && status != "pending" {
		writeError(w, http.StatusBadRequest, "only status=pending is supported")
		return
	}

	reviewer := reviewerFromContext(r.Context())

	list, err := h.review.ListPending(r.Context(), reviewer.TeamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]requestResponse, 0, len(list))
	for _, req := range list {
		out = append(out, toRequestResponse(req, nil))
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": out})
}

type decisionBody struct {
	Answers map[string]string `json:"answers"`
}

func (h *Handler) decideRequest(w http.ResponseWriter, r *http.Request) {
	var body decisionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(body.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers are required")
		return
	}

	answers := make(decision.Answers, len(body.Answers))
	for id, value := range body.Answers {
		answers[decision.QuestionID(id)] = value
	}

	reviewer := reviewerFromContext(r.Context())

	req, err := h.review.Decide(r.Context(), reviewer, chi.URLParam(r, "id"), answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(req, nil))
}
