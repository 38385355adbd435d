// Package models defines the server-side data types persisted by the
// repositories. Business logic lives in the services layer.
package models

import "time"

// Status of a software request. Once a request leaves pending it is terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Provenance of a stored answer.
const (
	ProvenanceManual    = "manual"
	ProvenanceAutomated = "automated"
)

// Team is the tenant boundary; it owns software requests and API keys.
type Team struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// APIKey is a stored credential. Only the SHA-256 digest of the raw key is
// persisted. A nil ExpiresAt means the key never expires. OwnerEmail and
// OwnerRole carry the member context the key was issued to.
type APIKey struct {
	ID         string
	TeamID     string
	HashedKey  string
	OwnerEmail string
	OwnerRole  string
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// RoleElevated marks key owners and reviewers who may act on requests they
// did not create.
const RoleElevated = "admin"

// Reviewer is a human who can resolve pending requests for a team.
type Reviewer struct {
	ID           string
	TeamID       string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}

// Answer is one stored questionnaire answer, annotated with its provenance
// and, for automated answers, the analysis confidence.
type Answer struct {
	Value      string `json:"value"`
	Provenance string `json:"provenance"`
	Confidence *int   `json:"confidence,omitempty"`
}

// AnswerSet maps question ids to stored answers. It is persisted as a single
// JSON document alongside the request.
type AnswerSet map[string]Answer

// SoftwareRequest is the authoritative server-side record of one intercepted
// download.
//
// Invariant: a terminal status is always stored together with a non-empty
// AnswerSet from which the decision engine re-derives that status, and
// exactly one of ApprovalDate/DeniedDate is set, once.
type SoftwareRequest struct {
	ID             string
	TeamID         string
	RequestedBy    string
	SoftwareName   string
	Version        string
	DownloadSource string
	FileURL        string
	FileSizeBytes  int64
	SHA256         string
	MD5            string
	Notes          string
	Status         Status
	Answers        AnswerSet
	// RiskAnalysis keeps the analysis narrative for operator visibility.
	RiskAnalysis string
	CreatedAt    time.Time
	ApprovalDate *time.Time
	DeniedDate   *time.Time
}
