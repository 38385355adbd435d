// Package events publishes audit events for terminal request decisions.
// Publishing is best-effort: a failed publish is logged and never fails the
// request that produced it.
package events

import (
	"context"
	"time"
)

// DecisionEvent describes one terminal approve/deny transition.
type DecisionEvent struct {
	RequestID    string    `json:"request_id"`
	TeamID       string    `json:"team_id"`
	SoftwareName string    `json:"software_name"`
	Status       string    `json:"status"`
	RiskScore    int       `json:"risk_score"`
	Provenance   string    `json:"provenance"`
	DecidedAt    time.Time `json:"decided_at"`
}

// Publisher emits decision audit events.
type Publisher interface {
	PublishDecision(ctx context.Context, e DecisionEvent) error
	Close() error
}
