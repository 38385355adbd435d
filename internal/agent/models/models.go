// Package models defines the agent-side records persisted in the local
// SQLite database.
package models

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusSent     Status = "sent"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusError    Status = "error"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// PendingDownload is one intercepted download awaiting (or past) approval.
//
// Invariants, enforced at the repository boundary:
//   - a non-empty ServerRequestID implies Status != pending;
//   - Status == sent requires a non-empty ServerRequestID;
//   - TeamID comes from the server response, never from local input.
type PendingDownload struct {
	// LocalID is assigned at capture time and never changes; the server id
	// lives in ServerRequestID.
	LocalID        string
	FileName       string
	FileSizeBytes  int64
	SourceURL      string
	DownloadSource string
	Status         Status

	ServerRequestID string
	TeamID          string

	// LastError keeps the most recent transport or validation failure for
	// operator visibility. Cleared on the next successful transition.
	LastError string

	CreatedAt time.Time
	UpdatedAt time.Time
}
