// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/aristath/cryptorisk/internal/database"
	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	"github.com/aristath/cryptorisk/internal/scheduler"
	"github.com/aristath/cryptorisk/internal/workers"
)

// Container holds every long-lived dependency of the server
type Container struct {
	// Database
	SnapshotsDB *database.DB // Resolved portfolios handed over by the wallet fetcher

	// Policy
	Policy     domain.RiskPolicy
	Classifier *domain.Classifier

	// Repositories
	SnapshotRepo *portfolio.SnapshotRepository

	// Services
	WorkerPool       *workers.WorkerPool
	AnalysisService  *analysis.Service
	PortfolioService *portfolio.PortfolioService

	// Scheduler
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the job instances for manual triggering
type JobInstances struct {
	AnalyzeSnapshots    scheduler.Job // manual-only when no analysis schedule is configured
	CheckDatabase       scheduler.Job
	CheckWALCheckpoints scheduler.Job
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.SnapshotsDB != nil {
		return c.SnapshotsDB.Close()
	}
	return nil
}
