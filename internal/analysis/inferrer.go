// Package analysis implements the automated pre-screening of software
// requests: it derives categorical questionnaire answers and a confidence
// score from software metadata and feeds them through the decision engine.
//
// The inference backend is a capability: a real remote model endpoint when
// configured, and a deterministic local heuristic otherwise. The decision
// path is identical for both.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Inferrer produces a free-text risk assessment for a prompt.
type Inferrer interface {
	Infer(ctx context.Context, prompt string) (string, error)
}

// HTTPInferrer calls a remote inference backend over HTTP.
type HTTPInferrer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPInferrer builds an inferrer for the given backend endpoint.
// apiKey may be empty when the backend is unauthenticated.
func NewHTTPInferrer(endpoint, apiKey string, timeout time.Duration) *HTTPInferrer {
	return &HTTPInferrer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type inferRequest struct {
	Prompt string `json:"prompt"`
}

type inferResponse struct {
	Text string `json:"text"`
}

// Infer sends the prompt to the backend and returns the narrative text.
// Any transport or decoding failure is returned to the caller; it is never
// converted into a verdict.
func (i *HTTPInferrer) Infer(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(inferRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if i.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+i.apiKey)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("inference backend: status %d: %s", resp.StatusCode, string(b))
	}

	var out inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("inference backend: empty response")
	}
	return out.Text, nil
}
