package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/softgatehq/softgate/internal/common"
	"github.com/softgatehq/softgate/internal/logging"
)

// KeyProvider supplies the API key for outbound requests. The key lives in
// the agent store and may change between calls.
type KeyProvider func(ctx context.Context) (string, error)

type Client struct {
	http         *http.Client
	bases        []string
	submitPaths  []string
	store        StateStore
	apiKey       KeyProvider
	probeTimeout time.Duration
	retryBase    time.Duration
	logger       logging.Logger
}

func NewClient(bases, submitPaths []string, store StateStore, apiKey KeyProvider, probeTimeout, requestTimeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		http:         &http.Client{Timeout: requestTimeout},
		bases:        bases,
		submitPaths:  submitPaths,
		store:        store,
		apiKey:       apiKey,
		probeTimeout: probeTimeout,
		retryBase:    500 * time.Millisecond,
		logger:       logger.With("module", "transport"),
	}
}

// SubmitRequest is the wire payload for one captured download.
type SubmitRequest struct {
	FileName       string `json:"fileName"`
	FileSize       int64  `json:"fileSize"`
	FileURL        string `json:"fileUrl"`
	DownloadSource string `json:"downloadSource"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
}

// RequestStatus is the server's view of a submitted request.
type RequestStatus struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	Status    string    `json:"status"`
	TeamID    string    `json:"teamId"`
	TeamName  string    `json:"teamName"`
	TeamSlug  string    `json:"teamSlug"`
	CreatedAt time.Time `json:"createdAt"`
}

// KeyInfo is the verify-key response.
type KeyInfo struct {
	Valid    bool   `json:"valid"`
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Ping checks reachability using the discovered (or freshly discovered) base.
func (c *Client) Ping(ctx context.Context) error {
	state, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if state.BaseURL == "" {
		if state.BaseURL, err = c.discoverBase(ctx); err != nil {
			return err
		}
		if err := c.store.Save(ctx, state); err != nil {
			c.logger.Warn(ctx, "saving endpoint state failed", "error", err)
		}
		return nil
	}
	if err := c.probePing(ctx, state.BaseURL); err != nil {
		c.invalidate(ctx)
		return fmt.Errorf("%w: %v", common.ErrNoReachableEndpoint, err)
	}
	return nil
}

// Submit creates a server record for the captured download. Transport-level
// failures against a cached endpoint trigger one rediscovery cycle inside a
// bounded fibonacci backoff; business errors (401, 400) surface immediately.
func (c *Client) Submit(ctx context.Context, in SubmitRequest) (*RequestStatus, error) {
	in.Status = "pending"

	var out RequestStatus
	err := retry.Do(ctx, retry.WithMaxRetries(2, retry.NewFibonacci(c.retryBase)), func(ctx context.Context) error {
		state, err := c.ensureState(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}

		status, body, err := c.doJSON(ctx, http.MethodPost, state.BaseURL+state.SubmitPath, in)
		if err != nil {
			c.invalidate(ctx)
			return retry.RetryableError(err)
		}

		switch status {
		case http.StatusCreated, http.StatusOK:
			if err := json.Unmarshal(body, &out); err != nil {
				return fmt.Errorf("malformed server response: %w", err)
			}
			return nil
		case http.StatusUnauthorized:
			return common.ErrorUnauthorized
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", common.ErrorValidation, errorMessage(body))
		default:
			return fmt.Errorf("server rejected submission: %s", errorMessage(body))
		}
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Status polls one server record.
func (c *Client) Status(ctx context.Context, serverID string) (*RequestStatus, error) {
	state, err := c.ensureState(ctx)
	if err != nil {
		return nil, err
	}

	status, body, err := c.doJSON(ctx, http.MethodGet, state.BaseURL+state.SubmitPath+"/"+serverID, nil)
	if err != nil {
		c.invalidate(ctx)
		return nil, fmt.Errorf("%w: %v", common.ErrNoReachableEndpoint, err)
	}

	switch status {
	case http.StatusOK:
		var out RequestStatus
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("malformed server response: %w", err)
		}
		return &out, nil
	case http.StatusNotFound:
		return nil, common.ErrorNotFound
	case http.StatusUnauthorized:
		return nil, common.ErrorUnauthorized
	default:
		return nil, fmt.Errorf("status poll failed: %s", errorMessage(body))
	}
}

// Delete cancels a server record. Used before local removal of a sent
// download; a 404 is surfaced so the caller can decide.
func (c *Client) Delete(ctx context.Context, serverID string) error {
	return retry.Do(ctx, retry.WithMaxRetries(2, retry.NewFibonacci(c.retryBase)), func(ctx context.Context) error {
		state, err := c.ensureState(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}

		status, body, err := c.doJSON(ctx, http.MethodDelete, state.BaseURL+state.SubmitPath+"/"+serverID, nil)
		if err != nil {
			c.invalidate(ctx)
			return retry.RetryableError(err)
		}

		switch status {
		case http.StatusOK:
			return nil
		case http.StatusNotFound:
			return common.ErrorNotFound
		case http.StatusUnauthorized:
			return common.ErrorUnauthorized
		default:
			return fmt.Errorf("server rejected cancellation: %s", errorMessage(body))
		}
	})
}

// VerifyKey validates the stored credential against the server.
func (c *Client) VerifyKey(ctx context.Context) (*KeyInfo, error) {
	state, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state.BaseURL == "" {
		if state.BaseURL, err = c.discoverBase(ctx); err != nil {
			return nil, err
		}
		if err := c.store.Save(ctx, state); err != nil {
			c.logger.Warn(ctx, "saving endpoint state failed", "error", err)
		}
	}

	status, body, err := c.doJSON(ctx, http.MethodGet, state.BaseURL+"/verify-key", nil)
	if err != nil {
		c.invalidate(ctx)
		return nil, fmt.Errorf("%w: %v", common.ErrNoReachableEndpoint, err)
	}

	switch status {
	case http.StatusOK:
		var out KeyInfo
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("malformed server response: %w", err)
		}
		return &out, nil
	case http.StatusUnauthorized:
		return nil, common.ErrorUnauthorized
	default:
		return nil, fmt.Errorf("key verification failed: %s", errorMessage(body))
	}
}

// doJSON performs one request with the API key header and returns the status
// and body. An HTML body is reported as a transport error, never as a
// response.
func (c *Client) doJSON(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	key, err := c.apiKey(ctx)
	if err != nil {
		return 0, nil, err
	}
	if key != "" {
		req.Header.Set(common.APIKeyHeaderName, key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		return 0, nil, fmt.Errorf("html response on status %d", resp.StatusCode)
	}

	return resp.StatusCode, body, nil
}

func errorMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return "unexpected server response"
}
