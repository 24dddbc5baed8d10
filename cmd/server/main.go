// Package main is the entry point for the subsidy dashboard server.
// It loads the per-year subsidy record files, groups them by beneficiary and
// serves the grouped views over HTTP, reloading on a schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/subsidywatch/internal/config"
	"github.com/aristath/subsidywatch/internal/di"
	"github.com/aristath/subsidywatch/internal/server"
	"github.com/aristath/subsidywatch/pkg/logger"
)

// initialLoadTimeout bounds the first dataset load at startup
const initialLoadTimeout = 5 * time.Minute

// main is the application entry point. Startup sequence:
// 1. Loads configuration from environment variables (.env file optional)
// 2. Initializes logging system
// 3. Wires all dependencies via DI container (source, loader, services, jobs)
// 4. Performs the initial dataset load
// 5. Starts the reload scheduler and the HTTP server
// 6. Waits for shutdown signal and performs graceful shutdown
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("source", cfg.Source).
		Str("data_dir", cfg.DataDir).
		Msg("Starting subsidy dashboard")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// A failed first load is not fatal: the API answers 503 until a
	// scheduled or manual reload succeeds.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	if _, err := container.DatasetService.Reload(loadCtx); err != nil {
		log.Error().Err(err).Msg("Initial dataset load failed")
	}
	loadCancel()

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:            log,
		Port:           cfg.Port,
		DevMode:        cfg.DevMode,
		AllowedOrigins: cfg.AllowedOrigins,
		Container:      container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().
		Int("port", cfg.Port).
		Str("reload_job", jobs.DatasetReload.Name()).
		Str("reload_schedule", cfg.ReloadSchedule).
		Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Stop scheduler first so no reload starts during shutdown
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
