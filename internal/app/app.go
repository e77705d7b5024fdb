// Package app wires configuration, telemetry, the record store and the
// search engine for every entrypoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rogerio-castellano/inventory-search/internal/config"
	"github.com/rogerio-castellano/inventory-search/internal/endpoint"
	"github.com/rogerio-castellano/inventory-search/internal/repo"
	"github.com/rogerio-castellano/inventory-search/internal/search"
	"github.com/rogerio-castellano/inventory-search/internal/seed"
	"github.com/rogerio-castellano/inventory-search/internal/telemetry"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *telemetry.Telemetry
	Backend   *repo.Backend
	Engine    *search.Engine
	Endpoint  *endpoint.Handler
}

// New loads configuration from envFile and the environment, then opens the
// configured backend once. When SEED_FILE is set its records are loaded
// before New returns.
func New(ctx context.Context, envFile string, logOut io.Writer) (*App, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(ctx, cfg, logOut)
}

func NewFromConfig(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := telemetry.NewLogger(logOut, cfg.Log, cfg.OTLP)
	slog.SetDefault(logger)

	telem, err := telemetry.NewTelemetry(ctx, cfg.OTLP, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	backend, err := repo.Open(ctx, cfg.Store)
	if err != nil {
		_ = telem.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	logger.Info("Record store opened",
		slog.String("backend", backend.Name),
		slog.String("table", cfg.Store.Table),
	)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telem,
		Backend:   backend,
	}
	a.Engine, err = search.NewEngine(backend.Store, telem.Tracer(), telem.Meter(), logger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Endpoint = endpoint.NewHandler(a.Engine, logger)

	if cfg.Store.SeedFile != "" {
		if _, err := a.Seed(ctx, cfg.Store.SeedFile); err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
	}
	return a, nil
}

// Seed loads path into the backend, creating its schema first.
func (a *App) Seed(ctx context.Context, path string) (int, error) {
	n, err := seed.Backend(ctx, a.Backend, path, a.Config.Store.SeedKeyAttribute, a.Logger)
	if err != nil {
		return n, fmt.Errorf("failed to seed from %s: %w", path, err)
	}
	return n, nil
}

// Close releases the store client and flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Backend.Close(), a.Telemetry.Shutdown(ctx))
}
