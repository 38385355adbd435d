package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/softgatehq/softgate/internal/common"
)

// probeBodyLimit bounds how much of a probe response is read for sniffing
// and JSON parsing.
const probeBodyLimit = 8 << 10

// discoverBase walks the candidate base URLs in order and returns the first
// one whose /ping answers with parseable non-HTML JSON on a 2xx. Probing is
// strictly sequential; the context is checked between candidates so
// cancellation never interrupts a request mid-flight.
func (c *Client) discoverBase(ctx context.Context) (string, error) {
	var failures []string

	for _, base := range c.bases {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := c.probePing(ctx, base); err != nil {
			c.logger.Debug(ctx, "endpoint candidate failed", "base", base, "error", err)
			failures = append(failures, fmt.Sprintf("%s: %v", base, err))
			continue
		}
		return base, nil
	}

	return "", fmt.Errorf("%w: %s", common.ErrNoReachableEndpoint, strings.Join(failures, "; "))
}

// discoverPath probes the candidate submission paths against a known base.
// A parseable JSON body proves the path exists, even when the server answers
// with an error envelope for the throwaway payload; HTML means the path is
// served by something else entirely.
func (c *Client) discoverPath(ctx context.Context, base string) (string, error) {
	var failures []string

	for _, path := range c.submitPaths {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := c.probeSubmit(ctx, base, path); err != nil {
			c.logger.Debug(ctx, "submit path candidate failed", "path", path, "error", err)
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		return path, nil
	}

	return "", fmt.Errorf("%w: %s", common.ErrNoReachableEndpoint, strings.Join(failures, "; "))
}

func (c *Client) probePing(ctx context.Context, base string) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/ping", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, probeBodyLimit))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		return fmt.Errorf("html response on status %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("body is not json: %w", err)
	}
	return nil
}

// probeSubmit sends a throwaway empty payload. Only the body's shape matters
// here, not the status code.
func (c *Client) probeSubmit(ctx context.Context, base, path string) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, probeBodyLimit))
	if err != nil {
		return err
	}

	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		return fmt.Errorf("html response on status %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("body is not json: %w", err)
	}
	return nil
}

// ensureState returns a usable endpoint state, running whatever discovery
// steps are still missing and persisting progress as it is made.
func (c *Client) ensureState(ctx context.Context) (State, error) {
	state, err := c.store.Load(ctx)
	if err != nil {
		return State{}, err
	}

	changed := false

	if state.BaseURL == "" {
		base, err := c.discoverBase(ctx)
		if err != nil {
			return State{}, err
		}
		state.BaseURL = base
		changed = true
	}

	if state.SubmitPath == "" {
		path, err := c.discoverPath(ctx, state.BaseURL)
		if err != nil {
			// Keep the discovered base even when no path answered.
			if changed {
				if saveErr := c.store.Save(ctx, state); saveErr != nil {
					c.logger.Warn(ctx, "saving partial endpoint state failed", "error", saveErr)
				}
			}
			return State{}, err
		}
		state.SubmitPath = path
		changed = true
	}

	if changed {
		if err := c.store.Save(ctx, state); err != nil {
			c.logger.Warn(ctx, "saving endpoint state failed", "error", err)
		}
	}

	return state, nil
}

// invalidate drops the cached endpoint so the next call restarts discovery
// from the first candidate.
func (c *Client) invalidate(ctx context.Context) {
	if err := c.store.Save(ctx, State{}); err != nil {
		c.logger.Warn(ctx, "clearing endpoint state failed", "error", err)
	}
}
