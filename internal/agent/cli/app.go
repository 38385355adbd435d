// Package cli is the agent's interactive front end: a small command loop
// over the lifecycle service, with a background watcher keeping the local
// records in step with the server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/softgatehq/softgate/internal/agent/config"
	"github.com/softgatehq/softgate/internal/agent/lifecycle"
	"github.com/softgatehq/softgate/internal/agent/storage"
	"github.com/softgatehq/softgate/internal/agent/transport"
	"github.com/softgatehq/softgate/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const apiKeyMetadataKey = "api_key"

type App struct {
	config    *config.Config
	repos     *storage.Repositories
	client    *transport.Client
	lifecycle *lifecycle.Service
	logger    logging.Logger
	Mode      Mode
	reader    *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stderr, slog.LevelWarn)

	repos, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	keyProvider := func(ctx context.Context) (string, error) {
		raw, err := repos.Metadata.Get(ctx, apiKeyMetadataKey)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	client := transport.NewClient(
		c.CandidateBaseURLs,
		c.CandidateSubmitPaths,
		transport.NewMetadataStateStore(repos.Metadata),
		keyProvider,
		c.ProbeTimeout,
		c.RequestTimeout,
		logger,
	)

	return &App{
		config:    c,
		repos:     repos,
		client:    client,
		lifecycle: lifecycle.NewService(repos.Downloads, client, logger),
		logger:    logger,
		Mode:      ModeOffline,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.repos.Close(); err != nil {
			a.logger.Warn(ctx, "closing database failed", "error", err)
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher periodically probes the server and, while online,
// refreshes the sent records. Refresh merges by record id, so it never
// clobbers a record the user is acting on.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := a.client.Ping(tickCtx)

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
				if err := a.lifecycle.Refresh(tickCtx); err != nil {
					a.logger.Warn(tickCtx, "background refresh failed", "error", err)
				}
			}
			cancel()

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("SoftGate agent (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	for {
		fmt.Printf("softgate (%s)> ", a.Mode)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: (l)ist, capture, send <id>, refresh, cancel <id>, key, verify, exit")

		case "capture":
			a.capture(ctx)
		case "l", "list":
			a.list(ctx)
		case "send":
			if len(args) == 0 {
				fmt.Println("Usage: send <local id>")
				continue
			}
			a.send(ctx, args[0])
		case "refresh":
			a.refresh(ctx)
		case "cancel":
			if len(args) == 0 {
				fmt.Println("Usage: cancel <local id>")
				continue
			}
			a.cancel(ctx, args[0])
		case "key":
			a.storeKey(ctx)
		case "verify":
			a.verify(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
