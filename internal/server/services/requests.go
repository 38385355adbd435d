package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/softgatehq/softgate/internal/analysis"
	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/decision"
	"github.com/softgatehq/softgate/internal/logging"
	"github.com/softgatehq/softgate/internal/server/events"
	"github.com/softgatehq/softgate/internal/server/models"
	"github.com/softgatehq/softgate/internal/server/repositories/requests"
)

// DefaultConfidenceGate is the minimum analysis confidence at which an
// automated verdict is applied without human review.
const DefaultConfidenceGate = 80

// RequestService owns the server side of the request lifecycle: intake of
// captured downloads, automated pre-screening, polling, and cancellation.
type RequestService struct {
	requests       requests.Repository
	screener       *analysis.Screener
	publisher      events.Publisher
	confidenceGate int
	logger         logging.Logger
	now            func() time.Time
}

// NewRequestService wires the service. screener may be nil, which disables
// automated pre-screening entirely (every request waits for a human).
func NewRequestService(repo requests.Repository, screener *analysis.Screener, publisher events.Publisher, confidenceGate int, logger logging.Logger) *RequestService {
	if confidenceGate <= 0 {
		confidenceGate = DefaultConfidenceGate
	}
	return &RequestService{
		requests:       repo,
		screener:       screener,
		publisher:      publisher,
		confidenceGate: confidenceGate,
		logger:         logger.With("module", "requests"),
		now:            time.Now,
	}
}

// CreateInput is the intake payload for one captured download.
type CreateInput struct {
	FileName       string
	FileSizeBytes  int64
	FileURL        string
	DownloadSource string
	SHA256         string
	MD5            string
	Notes          string
}

// Create validates and persists a new pending request, then runs the
// automated pre-screener when configured. Analysis failures and below-gate
// confidence both leave the record pending for human review; neither is an
// intake error.
func (s *RequestService) Create(ctx context.Context, team *models.Team, key *models.APIKey, in CreateInput) (*models.SoftwareRequest, error) {
	if strings.TrimSpace(in.FileName) == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	}

	source := strings.TrimSpace(in.DownloadSource)
	if source == "" {
		source = "Direct"
	}

	req := &models.SoftwareRequest{
		ID:             uuid.NewString(),
		TeamID:         team.ID,
		RequestedBy:    key.OwnerEmail,
		SoftwareName:   in.FileName,
		DownloadSource: source,
		FileURL:        in.FileURL,
		FileSizeBytes:  in.FileSizeBytes,
		SHA256:         in.SHA256,
		MD5:            in.MD5,
		Notes:          in.Notes,
		Status:         models.StatusPending,
		Answers:        models.AnswerSet{},
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", common.ErrorInternal, err)
	}

	if s.screener != nil {
		s.autoScreen(ctx, created)
	}

	return created, nil
}

// autoScreen runs the pre-screener against a freshly created request and
// applies the verdict when the confidence gate is met.
func (s *RequestService) autoScreen(ctx context.Context, req *models.SoftwareRequest) {
	report, err := s.screener.Analyze(ctx, analysis.SoftwareInfo{
		Name:           req.SoftwareName,
		Version:        req.Version,
		DownloadSource: req.DownloadSource,
		RequestedBy:    req.RequestedBy,
		FileSizeBytes:  req.FileSizeBytes,
		SHA256:         req.SHA256,
		MD5:            req.MD5,
	})
	if err != nil {
		s.logger.Warn(ctx, "automated analysis failed, awaiting human review",
			"request_id", req.ID, "error", err)
		return
	}

	if report.Confidence < s.confidenceGate {
		// Designed fallback to human review, not a failure.
		s.logger.Info(ctx, "analysis confidence below gate, awaiting human review",
			"request_id", req.ID, "confidence", report.Confidence, "gate", s.confidenceGate)
		return
	}

	status := models.StatusDenied
	if report.Approved {
		status = models.StatusApproved
	}

	confidence := report.Confidence
	answers := make(models.AnswerSet, len(report.Answers))
	for id, value := range report.Answers {
		answers[string(id)] = models.Answer{
			Value:      value,
			Provenance: models.ProvenanceAutomated,
			Confidence: &confidence,
		}
	}

	decidedAt := s.now()
	if err := s.requests.ApplyDecision(ctx, req.ID, status, answers, report.Narrative, decidedAt); err != nil {
		s.logger.Error(ctx, "applying automated decision failed",
			"request_id", req.ID, "error", err)
		return
	}

	req.Status = status
	req.Answers = answers
	req.RiskAnalysis = report.Narrative
	if status == models.StatusApproved {
		req.ApprovalDate = &decidedAt
	} else {
		req.DeniedDate = &decidedAt
	}

	s.publish(ctx, req, report.RiskScore, models.ProvenanceAutomated, decidedAt)
}

// Get returns one request scoped to the team, for status polling.
func (s *RequestService) Get(ctx context.Context, teamID, id string) (*models.SoftwareRequest, error) {
	return s.requests.GetByID(ctx, teamID, id)
}

// Cancel removes a request. Only the original requester or an elevated key
// owner may cancel; everyone else sees the request as absent.
func (s *RequestService) Cancel(ctx context.Context, team *models.Team, key *models.APIKey, id string) error {
	req, err := s.requests.GetByID(ctx, team.ID, id)
	if err != nil {
		return err
	}

	if req.RequestedBy != key.OwnerEmail && key.OwnerRole != models.RoleElevated {
		return common.ErrorNotFound
	}

	return s.requests.Delete(ctx, team.ID, id)
}

func (s *RequestService) publish(ctx context.Context, req *models.SoftwareRequest, riskScore int, provenance string, decidedAt time.Time) {
	err := s.publisher.PublishDecision(ctx, events.DecisionEvent{
		RequestID:    req.ID,
		TeamID:       req.TeamID,
		SoftwareName: req.SoftwareName,
		Status:       string(req.Status),
		RiskScore:    riskScore,
		Provenance:   provenance,
		DecidedAt:    decidedAt,
	})
	if err != nil {
		s.logger.Warn(ctx, "audit publish failed", "request_id", req.ID, "error", err)
	}
}

// RederiveStatus re-runs the engine on a request's stored answers. Terminal
// records must satisfy it; used by tests and consistency checks.
func RederiveStatus(catalog *decision.Catalog, req *models.SoftwareRequest) (models.Status, error) {
	if len(req.Answers) == 0 {
		return "", errors.New("terminal request without answers")
	}
	answers := make(decision.Answers, len(req.Answers))
	for id, a := range req.Answers {
		answers[decision.QuestionID(id)] = a.Value
	}
	if catalog.Decide(answers).Approved {
		return models.StatusApproved, nil
	}
	return models.StatusDenied, nil
}
