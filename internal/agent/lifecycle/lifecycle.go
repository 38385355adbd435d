// Package lifecycle drives the local download records through their states:
// capture, send, poll, cancel. All mutations re-read the latest row first so
// concurrent user actions and the background watcher stay consistent.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/softgatehq/softgate/internal/agent/models"
	"github.com/softgatehq/softgate/internal/agent/repositories/downloads"
	"github.com/softgatehq/softgate/internal/agent/transport"
	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/logging"
)

type Service struct {
	downloads downloads.Repository
	client    *transport.Client
	logger    logging.Logger
	now       func() time.Time
}

func NewService(repo downloads.Repository, client *transport.Client, logger logging.Logger) *Service {
	return &Service{
		downloads: repo,
		client:    client,
		logger:    logger.With("module", "lifecycle"),
		now:       time.Now,
	}
}

// CaptureEvent is what the download-event source hands us. Only the file
// name is required.
type CaptureEvent struct {
	FileName string
	FileSize int64
	URL      string
	Referrer string
}

// Capture validates the event and stores a pending record. No network is
// involved; a validation failure surfaces before anything is persisted.
func (s *Service) Capture(ctx context.Context, ev CaptureEvent) (*models.PendingDownload, error) {
	if strings.TrimSpace(ev.FileName) == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	}

	source := strings.TrimSpace(ev.Referrer)
	if source == "" {
		source = "Direct"
	}

	now := s.now()
	d := &models.PendingDownload{
		LocalID:        uuid.NewString(),
		FileName:       ev.FileName,
		FileSizeBytes:  ev.FileSize,
		SourceURL:      ev.URL,
		DownloadSource: source,
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.downloads.Insert(ctx, d); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return d, nil
}

// Send submits a pending record to the server. The sent status acts as a
// lock: a record that is already sent is rejected here, before any network
// call, so two concurrent sends cannot create two server records. Transport
// failures are recorded on the row and the record stays sendable.
func (s *Service) Send(ctx context.Context, localID string) (*models.PendingDownload, error) {
	d, err := s.downloads.GetByID(ctx, localID)
	if err != nil {
		return nil, err
	}

	switch d.Status {
	case models.StatusSent:
		return nil, common.ErrAlreadySent
	case models.StatusApproved, models.StatusDenied:
		return nil, fmt.Errorf("%w: already %s", common.ErrTerminalState, d.Status)
	}

	resp, err := s.client.Submit(ctx, transport.SubmitRequest{
		FileName:       d.FileName,
		FileSize:       d.FileSizeBytes,
		FileURL:        d.SourceURL,
		DownloadSource: d.DownloadSource,
	})
	if err != nil {
		d.LastError = sendFailureMessage(err)
		d.UpdatedAt = s.now()
		if updateErr := s.downloads.Update(ctx, d); updateErr != nil {
			s.logger.Warn(ctx, "recording send failure failed", "local_id", d.LocalID, "error", updateErr)
		}
		return nil, err
	}

	d.Status = models.StatusSent
	d.ServerRequestID = resp.ID
	d.TeamID = resp.TeamID
	d.LastError = ""
	d.UpdatedAt = s.now()
	if err := s.downloads.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("recording send: %w", err)
	}
	return d, nil
}

// Refresh polls the server for every sent record and merges the answers by
// record id. Records without a server id are left alone; a vanished server
// record is annotated, not silently dropped.
func (s *Service) Refresh(ctx context.Context) error {
	all, err := s.downloads.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, d := range all {
		if d.Status != models.StatusSent || d.ServerRequestID == "" {
			continue
		}

		status, err := s.client.Status(ctx, d.ServerRequestID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				d.Status = models.StatusError
				d.LastError = "server record no longer exists"
				d.UpdatedAt = s.now()
				if updateErr := s.downloads.Update(ctx, d); updateErr != nil {
					s.logger.Warn(ctx, "annotating vanished record failed", "local_id", d.LocalID, "error", updateErr)
				}
				continue
			}
			// Transport trouble ends the whole pass; the next tick retries.
			return err
		}

		var next models.Status
		switch status.Status {
		case "approved":
			next = models.StatusApproved
		case "denied":
			next = models.StatusDenied
		default:
			continue
		}

		// Re-read before writing: the user may have acted since GetAll.
		latest, err := s.downloads.GetByID(ctx, d.LocalID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return err
		}
		if latest.Status != models.StatusSent {
			continue
		}

		latest.Status = next
		latest.LastError = ""
		latest.UpdatedAt = s.now()
		if err := s.downloads.Update(ctx, latest); err != nil {
			return fmt.Errorf("recording decision: %w", err)
		}
	}

	return nil
}

// Cancel removes a record. A pending record is deleted locally with no
// network call. A sent record requires the remote DELETE to succeed first.
// Terminal records are refused.
func (s *Service) Cancel(ctx context.Context, localID string) error {
	d, err := s.downloads.GetByID(ctx, localID)
	if err != nil {
		return err
	}

	if d.Status.Terminal() {
		return fmt.Errorf("%w: already %s", common.ErrTerminalState, d.Status)
	}

	if d.Status == models.StatusSent {
		if err := s.client.Delete(ctx, d.ServerRequestID); err != nil {
			return fmt.Errorf("remote cancellation: %w", err)
		}
	}

	return s.downloads.DeleteByID(ctx, localID)
}

// List returns every local record, newest first.
func (s *Service) List(ctx context.Context) ([]*models.PendingDownload, error) {
	return s.downloads.GetAll(ctx)
}

// sendFailureMessage distinguishes "your credential is wrong" from "we could
// not reach the server" for the operator.
func sendFailureMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return "API key rejected by the server"
	case errors.Is(err, common.ErrNoReachableEndpoint):
		return "could not reach the approval server"
	default:
		return err.Error()
	}
}
