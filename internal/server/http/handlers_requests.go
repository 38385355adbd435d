package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/softgatehq/softgate/internal/server/models"
	"github.com/softgatehq/softgate/internal/server/services"
)

// createRequestBody is the agent submission payload.
type createRequestBody struct {
	FileName       string `json:"fileName"`
	FileSize       int64  `json:"fileSize"`
	FileURL        string `json:"fileUrl"`
	DownloadSource string `json:"downloadSource"`
	// Optional checksums; the pre-screener treats their absence as a risk
	// signal.
	SHA256 string `json:"sha256"`
	MD5    string `json:"md5"`
	Notes  string `json:"notes"`
}

type requestResponse struct {
	ID             string           `json:"id"`
	FileName       string           `json:"fileName"`
	Status         string           `json:"status"`
	TeamID         string           `json:"teamId"`
	TeamName       string           `json:"teamName,omitempty"`
	TeamSlug       string           `json:"teamSlug,omitempty"`
	DownloadSource string           `json:"downloadSource,omitempty"`
	FileURL        string           `json:"fileUrl,omitempty"`
	RiskAnalysis   string           `json:"riskAnalysis,omitempty"`
	Answers        models.AnswerSet `json:"answers,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	ApprovalDate   *time.Time       `json:"approvalDate,omitempty"`
	DeniedDate     *time.Time       `json:"deniedDate,omitempty"`
}

func toRequestResponse(req *models.SoftwareRequest, team *models.Team) requestResponse {
	resp := requestResponse{
		ID:             req.ID,
		FileName:       req.SoftwareName,
		Status:         string(req.Status),
		TeamID:         req.TeamID,
		DownloadSource: req.DownloadSource,
		FileURL:        req.FileURL,
		RiskAnalysis:   req.RiskAnalysis,
		Answers:        req.Answers,
		CreatedAt:      req.CreatedAt,
		ApprovalDate:   req.ApprovalDate,
		DeniedDate:     req.DeniedDate,
	}
	if team != nil {
		resp.TeamName = team.Name
		resp.TeamSlug = team.Slug
	}
	return resp
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	team := teamFromContext(r.Context())
	key := apiKeyFromContext(r.Context())

	req, err := h.requests.Create(r.Context(), team, key, services.CreateInput{
		FileName:       body.FileName,
		FileSizeBytes:  body.FileSize,
		FileURL:        body.FileURL,
		DownloadSource: body.DownloadSource,
		SHA256:         body.SHA256,
		MD5:            body.MD5,
		Notes:          body.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(req, team))
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	team := teamFromContext(r.Context())

	req, err := h.requests.Get(r.Context(), team.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(req, team))
}

func (h *Handler) deleteRequest(w http.ResponseWriter, r *http.Request) {
	team := teamFromContext(r.Context())
	key := apiKeyFromContext(r.Context())

	if err := h.requests.Cancel(r.Context(), team, key, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "request cancelled"})
}
