package cli

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/softgatehq/softgate/internal/agent/config"
)

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	app := &App{}
	var buf bytes.Buffer

	old := log.Default().Writer()
	defer log.SetOutput(old)
	log.SetOutput(&buf)

	app.setMode(ModeOnline)
	if app.Mode != ModeOnline {
		t.Fatalf("expected mode to be %q, got %q", ModeOnline, app.Mode)
	}
	if got := buf.String(); got == "" {
		t.Fatalf("expected log output on mode change, got empty")
	}

	buf.Reset()

	app.setMode(ModeOnline)
	if got := buf.String(); got != "" {
		t.Fatalf("expected no log output when mode doesn't change, got: %q", got)
	}

	app.setMode(ModeOffline)
	if app.Mode != ModeOffline {
		t.Fatalf("expected mode to be %q, got %q", ModeOffline, app.Mode)
	}
	if got := buf.String(); got == "" {
		t.Fatalf("expected log output on mode change to offline, got empty")
	}
}

func TestNewApp_StoresAndReadsAPIKey(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "agent.db")

	app, err := NewApp(ctx, cfg)
	require.NoError(t, err)
	defer app.repos.Close()

	require.Equal(t, ModeOffline, app.Mode)

	require.NoError(t, app.repos.Metadata.Set(ctx, apiKeyMetadataKey, []byte("sk-team-key")))

	raw, err := app.repos.Metadata.Get(ctx, apiKeyMetadataKey)
	require.NoError(t, err)
	require.Equal(t, "sk-team-key", string(raw))
}
