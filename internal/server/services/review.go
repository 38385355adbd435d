package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/decision"
	"github.com/softgatehq/softgate/internal/logging"
	"github.com/softgatehq/softgate/internal/server/auth"
	"github.com/softgatehq/softgate/internal/server/events"
	"github.com/softgatehq/softgate/internal/server/models"
	"github.com/softgatehq/softgate/internal/server/repositories/requests"
	"github.com/softgatehq/softgate/internal/server/repositories/reviewers"
)

// ReviewService is the human half of the decision pipeline: reviewer login
// and manual resolution of pending requests.
type ReviewService struct {
	reviewers     reviewers.Repository
	requests      requests.Repository
	catalog       *decision.Catalog
	publisher     events.Publisher
	secret        []byte
	tokenValidity time.Duration
	logger        logging.Logger
	now           func() time.Time
}

func NewReviewService(rv reviewers.Repository, rq requests.Repository, catalog *decision.Catalog, publisher events.Publisher, secret string, tokenValidity time.Duration, logger logging.Logger) *ReviewService {
	return &ReviewService{
		reviewers:     rv,
		requests:      rq,
		catalog:       catalog,
		publisher:     publisher,
		secret:        []byte(secret),
		tokenValidity: tokenValidity,
		logger:        logger.With("module", "review"),
		now:           time.Now,
	}
}

// Login verifies reviewer credentials and issues a session token.
func (s *ReviewService) Login(ctx context.Context, email, password string) (string, error) {
	reviewer, err := s.reviewers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("reviewer lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(reviewer.PasswordHash, []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(reviewer.ID, reviewer.TeamID, s.secret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a session token back to its reviewer.
func (s *ReviewService) Authenticate(ctx context.Context, token string) (*models.Reviewer, error) {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	reviewer, err := s.reviewers.GetByID(ctx, claims.ReviewerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("reviewer lookup: %w", err)
	}
	return reviewer, nil
}

// ListPending returns the review queue for the reviewer's team.
func (s *ReviewService) ListPending(ctx context.Context, teamID string) ([]*models.SoftwareRequest, error) {
	return s.requests.ListByStatus(ctx, teamID, models.StatusPending)
}

// Decide applies a manual decision: the submitted answers run through the
// decision engine, and the engine's verdict is what gets stored. The
// terminal transition happens at most once; a second decision fails with
// ErrTerminalState.
func (s *ReviewService) Decide(ctx context.Context, reviewer *models.Reviewer, requestID string, submitted decision.Answers) (*models.SoftwareRequest, error) {
	req, err := s.requests.GetByID(ctx, reviewer.TeamID, requestID)
	if err != nil {
		return nil, err
	}

	outcome := s.catalog.Decide(submitted)

	status := models.StatusDenied
	if outcome.Approved {
		status = models.StatusApproved
	}

	answers := make(models.AnswerSet, len(submitted))
	for id, value := range submitted {
		answers[string(id)] = models.Answer{
			Value:      value,
			Provenance: models.ProvenanceManual,
		}
	}

	decidedAt := s.now()
	if err := s.requests.ApplyDecision(ctx, req.ID, status, answers, req.RiskAnalysis, decidedAt); err != nil {
		return nil, err
	}

	req.Status = status
	req.Answers = answers
	if status == models.StatusApproved {
		req.ApprovalDate = &decidedAt
	} else {
		req.DeniedDate = &decidedAt
	}

	if err := s.publisher.PublishDecision(ctx, events.DecisionEvent{
		RequestID:    req.ID,
		TeamID:       req.TeamID,
		SoftwareName: req.SoftwareName,
		Status:       string(req.Status),
		RiskScore:    outcome.RiskScore,
		Provenance:   models.ProvenanceManual,
		DecidedAt:    decidedAt,
	}); err != nil {
		s.logger.Warn(ctx, "audit publish failed", "request_id", req.ID, "error", err)
	}

	return req, nil
}
