package di

import (
	"fmt"

	"github.com/aristath/cryptorisk/internal/config"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	"github.com/aristath/cryptorisk/internal/workers"
	"github.com/rs/zerolog"
)

// InitializeServices loads the risk policy and builds repositories and services
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.SnapshotsDB == nil {
		return fmt.Errorf("container has no database")
	}

	policy, classifier, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("failed to load risk policy: %w", err)
	}
	container.Policy = policy
	container.Classifier = classifier

	container.SnapshotRepo = portfolio.NewSnapshotRepository(container.SnapshotsDB.Conn(), log)
	container.WorkerPool = workers.NewWorkerPool(cfg.Workers)
	container.AnalysisService = analysis.NewService(policy, classifier, container.WorkerPool, cfg.Seed, log)
	container.PortfolioService = portfolio.NewPortfolioService(container.SnapshotRepo, container.AnalysisService, log)

	log.Info().
		Int("workers", container.WorkerPool.Size()).
		Int("horizon", policy.Horizon).
		Float64("risk_free_rate", policy.RiskFreeRate).
		Msg("Services initialized")
	return nil
}
