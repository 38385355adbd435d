// Package server initializes and runs the main application server.
// It opens the database, wires the credential cache, audit publisher, and
// analysis pipeline, handles graceful shutdown, and serves the HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/softgatehq/softgate/internal/analysis"
	"github.com/softgatehq/softgate/internal/decision"
	"github.com/softgatehq/softgate/internal/logging"
	"github.com/softgatehq/softgate/internal/server/cache"
	"github.com/softgatehq/softgate/internal/server/config"
	"github.com/softgatehq/softgate/internal/server/events"
	shttp "github.com/softgatehq/softgate/internal/server/http"
	"github.com/softgatehq/softgate/internal/server/repositories/repomanager"
	"github.com/softgatehq/softgate/internal/server/services"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	publisher events.Publisher
	handler   *shttp.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	repos, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var credCache cache.CredentialCache
	if cfg.RedisAddr != "" {
		credCache = cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL, logger)
	} else {
		credCache = cache.NewMemoryCache(cfg.CacheTTL)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		publisher = events.NewLogPublisher(logger)
	}

	catalog := decision.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = decision.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("question catalog: %w", err)
		}
	}

	var screener *analysis.Screener
	if cfg.AutoScreen {
		var inferrer analysis.Inferrer
		if cfg.InferenceEndpoint != "" {
			inferrer = analysis.NewHTTPInferrer(cfg.InferenceEndpoint, cfg.InferenceAPIKey, cfg.InferenceTimeout)
		} else {
			inferrer = analysis.NewLocalInferrer(catalog)
		}
		screener = analysis.NewScreener(inferrer, catalog)
	}

	tenants := services.NewTenantService(repos.APIKeys(), repos.Teams(), credCache, logger)
	requests := services.NewRequestService(repos.Requests(), screener, publisher, cfg.ConfidenceGate, logger)
	review := services.NewReviewService(repos.Reviewers(), repos.Requests(), catalog, publisher,
		cfg.SecretKey, cfg.TokenValidityDuration, logger)

	handler := shttp.NewHandler(tenants, requests, review, logger)

	return &App{
		config:    cfg,
		logger:    logger,
		repos:     repos,
		publisher: publisher,
		handler:   handler,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: shttp.NewRouter(app.handler),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.publisher.Close(); err != nil {
		app.logger.Error(ctx, "publisher close error", "error", err)
	}
	if err := app.repos.Close(ctx); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
