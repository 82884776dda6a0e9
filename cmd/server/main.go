// Package main is the entry point of the crypto portfolio risk engine daemon.
//
// Startup sequence:
//  1. Load configuration (.env and environment)
//  2. Initialize logging
//  3. Wire the database, policy, services and jobs
//  4. Start the scheduler and the HTTP server
//  5. Wait for a shutdown signal and stop gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/cryptorisk/internal/config"
	"github.com/aristath/cryptorisk/internal/di"
	analysishandlers "github.com/aristath/cryptorisk/internal/modules/analysis/handlers"
	snapshothandlers "github.com/aristath/cryptorisk/internal/modules/portfolio/handlers"
	riskhandlers "github.com/aristath/cryptorisk/internal/modules/risk/handlers"
	"github.com/aristath/cryptorisk/internal/server"
	"github.com/aristath/cryptorisk/pkg/logger"
)

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

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting crypto risk engine")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	srv := server.New(server.Config{
		Log:       log,
		DB:        container.SnapshotsDB,
		Scheduler: container.Scheduler,
		Port:      cfg.Port,
		Workers:   container.WorkerPool.Size(),
		DevMode:   cfg.DevMode,
		Modules: []server.RouteRegistrar{
			analysishandlers.NewHandler(container.AnalysisService, cfg.Seed, log),
			riskhandlers.NewHandler(container.AnalysisService, container.Classifier, cfg.Seed, log),
			snapshothandlers.NewHandler(container.PortfolioService, log),
		},
	})

	container.Scheduler.Start()
	if cfg.AnalysisSchedule == "" {
		log.Info().
			Str("job", jobs.AnalyzeSnapshots.Name()).
			Msg("Scheduled snapshot analysis disabled (RISK_ANALYSIS_SCHEDULE not set); manual runs only")
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stops the scheduler and waits for running jobs before closing the database
	if err := container.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}

	log.Info().Msg("Server stopped")
}
