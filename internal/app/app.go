// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thread-miners/scrape/internal/config"
	"github.com/thread-miners/scrape/internal/pipeline"
	"github.com/thread-miners/scrape/internal/ratelimit"
	"github.com/thread-miners/scrape/internal/renderer"
	"github.com/thread-miners/scrape/internal/store"
)

// Application holds all dependencies and manages their lifecycle. Heavy
// resources (browser session, database handle) are constructed once here,
// shared read-only afterwards, and torn down in Close.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Session     *renderer.Session
	Store       *store.Store
	RateLimiter ratelimit.RateLimiter
	Pipeline    *pipeline.Pipeline
	startTime   time.Time
}

// New creates and initializes an Application. If any step fails the
// already-acquired resources are released before returning.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}
	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	session, err := renderer.NewSession(renderer.SessionOptions{
		Headless:   cfg.Headless,
		UserAgent:  cfg.UserAgent,
		ChromePath: cfg.ChromePath,
		Proxy:      cfg.Proxy,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	limiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	opts := pipeline.DefaultOptions()
	opts.BaseURL = cfg.BaseURL
	opts.FetchTimeout = cfg.FetchTimeout
	opts.RunTimeout = cfg.RunTimeout
	opts.ReplyWorkers = cfg.ReplyWorkers
	pipe := pipeline.New(session, st, limiter, opts)

	logger.Info().Msg("Application initialized")
	return &Application{
		Config:      cfg,
		Logger:      &logger,
		Session:     session,
		Store:       st,
		RateLimiter: limiter,
		Pipeline:    pipe,
		startTime:   time.Now(),
	}, nil
}

// Close shuts the application down. Errors during shutdown are logged but
// do not prevent the remaining steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down")

	if a.Session != nil {
		if err := a.Session.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser session")
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing store")
		}
	}

	a.Logger.Info().Dur("uptime", time.Since(a.startTime)).Msg("Shutdown complete")
	return nil
}
