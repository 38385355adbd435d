package events

import (
	"context"

	"github.com/softgatehq/softgate/internal/logging"
)

// LogPublisher records decision events to the structured log. Used when no
// broker is configured.
type LogPublisher struct {
	logger logging.Logger
}

func NewLogPublisher(logger logging.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("module", "audit")}
}

func (p *LogPublisher) PublishDecision(ctx context.Context, e DecisionEvent) error {
	p.logger.Info(ctx, "decision recorded",
		"request_id", e.RequestID,
		"team_id", e.TeamID,
		"software", e.SoftwareName,
		"status", e.Status,
		"risk_score", e.RiskScore,
		"provenance", e.Provenance,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
