package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/softgatehq/softgate/internal/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPInferrer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req inferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Prompt, "Software name: Blender")

		_ = json.NewEncoder(w).Encode(inferResponse{Text: "assessment. Confidence: 88%"})
	}))
	defer srv.Close()

	inf := NewHTTPInferrer(srv.URL, "sk-test", 5*time.Second)
	prompt := BuildPrompt(SoftwareInfo{Name: "Blender"}, decision.DefaultCatalog())

	text, err := inf.Infer(context.Background(), prompt)
	require.NoError(t, err)
	assert.Contains(t, text, "Confidence: 88%")
}

func TestHTTPInferrer_BackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "empty text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(inferResponse{})
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			inf := NewHTTPInferrer(srv.URL, "", time.Second)
			_, err := inf.Infer(context.Background(), "prompt")
			require.Error(t, err)
		})
	}
}

func TestHTTPInferrer_Unreachable(t *testing.T) {
	inf := NewHTTPInferrer("http://127.0.0.1:1", "", 500*time.Millisecond)
	_, err := inf.Infer(context.Background(), "prompt")
	require.Error(t, err)
}

type failingInferrer struct{}

func (failingInferrer) Infer(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("backend down")
}

// A backend failure surfaces as an error and is never turned into a verdict.
func TestScreener_BackendFailureIsError(t *testing.T) {
	s := NewScreener(failingInferrer{}, decision.DefaultCatalog())

	report, err := s.Analyze(context.Background(), SoftwareInfo{Name: "anything"})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "analysis did not complete")
}

// The verdict always comes from the decision engine, even when the narrative
// claims otherwise.
func TestScreener_NarrativeVerdictIgnored(t *testing.T) {
	catalog := decision.DefaultCatalog()

	narrative := "APPROVE with 95% confidence.\n"
	for _, q := range catalog.Questions {
		value := "no"
		if q.ID == decision.QActiveVulnerabilities {
			value = "yes"
		}
		narrative += q.Text + "\nAnswer: " + value + "\n\n"
	}

	s := NewScreener(staticInferrer(narrative), catalog)
	report, err := s.Analyze(context.Background(), SoftwareInfo{Name: "x"})
	require.NoError(t, err)

	assert.False(t, report.Approved)
	assert.Equal(t, 95, report.Confidence)
}

type staticInferrer string

func (s staticInferrer) Infer(ctx context.Context, prompt string) (string, error) {
	return string(s), nil
}
