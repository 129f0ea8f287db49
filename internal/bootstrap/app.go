// Package bootstrap wires configuration, logging, telemetry and the
// selected analysis backend into a ready-to-use application.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/newscheck/infrastructure/circuitbreaker"
	infragin "github.com/jonesrussell/newscheck/infrastructure/gin"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/analysisclient"
	"github.com/jonesrussell/newscheck/internal/analyzer"
	"github.com/jonesrussell/newscheck/internal/api"
	"github.com/jonesrussell/newscheck/internal/config"
	"github.com/jonesrussell/newscheck/internal/heuristic"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/jonesrussell/newscheck/internal/llmjudge"
	"github.com/jonesrussell/newscheck/internal/telemetry"
)

const healthPingTimeout = 3 * time.Second

// App holds the wired components shared by the CLI commands.
type App struct {
	Config    *config.Config
	Logger    infralogger.Logger
	Telemetry *telemetry.Provider
	Service   *analyzer.Service
	Merge     highlight.Options
}

// NewApp builds the analyzer service for cfg.
func NewApp(cfg *config.Config, logger infralogger.Logger) (*App, error) {
	merge, err := cfg.Render.MergeOptions()
	if err != nil {
		return nil, fmt.Errorf("render options: %w", err)
	}

	backend, err := NewBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	tp := telemetry.NewProvider()
	service := analyzer.NewService(backend, analyzer.Config{
		Timeout: cfg.Analyzer.Timeout,
		Merge:   merge,
	}, logger, tp)

	logger.Info("Analyzer initialized",
		infralogger.String("backend", backend.Name()),
		infralogger.Duration("timeout", cfg.Analyzer.Timeout),
		infralogger.String("overlap", merge.Overlap.String()),
		infralogger.String("malformed", merge.Malformed.String()),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Telemetry: tp,
		Service:   service,
		Merge:     merge,
	}, nil
}

// NewBackend creates the backend named by analyzer.backend.
func NewBackend(cfg *config.Config, logger infralogger.Logger) (analyzer.Analyzer, error) {
	a := cfg.Analyzer
	switch a.Backend {
	case config.BackendHTTP:
		return analysisclient.NewClient(analysisclient.Config{
			BaseURL:     a.HTTP.URL,
			RPS:         a.HTTP.RPS,
			Burst:       a.HTTP.Burst,
			HTTPTimeout: a.HTTP.Timeout,
			Breaker: circuitbreaker.Config{
				FailureThreshold: a.HTTP.Breaker.FailureThreshold,
				SuccessThreshold: a.HTTP.Breaker.SuccessThreshold,
				Timeout:          a.HTTP.Breaker.Timeout,
			},
		}, logger), nil

	case config.BackendHeuristic:
		return heuristic.New(heuristic.Config{
			Seed:                a.Heuristic.Seed,
			RandomHighlightRate: a.Heuristic.RandomHighlightRate,
			Latency:             a.Heuristic.Latency,
			Phrases:             a.Heuristic.Phrases,
		}, logger), nil

	case config.BackendAnthropic:
		judge, err := llmjudge.New(llmjudge.Config{
			APIKey:    a.Anthropic.APIKey,
			Model:     a.Anthropic.Model,
			MaxTokens: a.Anthropic.MaxTokens,
			BaseURL:   a.Anthropic.BaseURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create anthropic backend: %w", err)
		}
		return judge, nil

	default:
		return nil, fmt.Errorf("unknown analyzer backend %q", a.Backend)
	}
}

// NewHTTPServer creates the API server. Backends that can be pinged are
// reported on /health.
func (a *App) NewHTTPServer() *infragin.Server {
	handler := api.NewHandler(a.Service, a.Merge, a.Logger)

	deps := api.ServerDeps{
		Logger:   a.Logger,
		Gatherer: a.Telemetry.Registry,
	}
	if prober, ok := a.Service.Backend().(api.HealthProber); ok {
		deps.BackendPing = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthPingTimeout)
			defer cancel()
			_, err := prober.Health(ctx)
			return err
		}
	}

	return api.NewServer(handler, a.Config, deps)
}
