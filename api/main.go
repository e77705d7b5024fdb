package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/inventory-search/internal/app"
	api "github.com/rogerio-castellano/inventory-search/internal/http"
	"github.com/rogerio-castellano/inventory-search/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-search/internal/http/rate_limiter"
)

// @title Inventory Search API
// @version 1.0
// @description Read-only product inventory search with category, name and price filters.
// @host localhost:8080
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, ".env", os.Stdout)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()
	logger := a.Logger

	limiter := rl.New(a.Config.RateLimit.RPS, a.Config.RateLimit.Burst)
	go limiter.StartCleanupLoop(ctx, time.Minute, 5*time.Minute)

	handlers.SetSearchEndpoint(a.Endpoint)
	handlers.SetBackendName(a.Backend.Name)
	handlers.SetLogger(logger)
	api.SetLogger(logger)
	api.SetMetricsHandler(a.Telemetry.MetricsHandler())
	api.SetRateLimiter(limiter)

	srv := &http.Server{
		Addr:              a.Config.Server.Addr(),
		Handler:           api.Instrument(api.NewRouter(), a.Telemetry.TracerProvider, a.Telemetry.MeterProvider),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
}
