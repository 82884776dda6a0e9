package di

import (
	"fmt"

	"github.com/aristath/cryptorisk/internal/config"
	"github.com/aristath/cryptorisk/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	checkDatabaseSchedule = "@daily"
	walCheckpointSchedule = "@hourly"
)

// RegisterJobs creates the scheduler and registers every job with it.
// Snapshot re-analysis runs on cfg.AnalysisSchedule when it is set and is otherwise
// registered for manual runs only.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	instances := &JobInstances{
		AnalyzeSnapshots:    scheduler.NewAnalyzeSnapshotsJob(container.PortfolioService, log),
		CheckDatabase:       scheduler.NewCheckDatabaseJob(container.SnapshotsDB, log),
		CheckWALCheckpoints: scheduler.NewCheckWALCheckpointsJob(container.SnapshotsDB, log),
	}

	if err := sched.AddJob(checkDatabaseSchedule, instances.CheckDatabase); err != nil {
		return nil, err
	}
	if err := sched.AddJob(walCheckpointSchedule, instances.CheckWALCheckpoints); err != nil {
		return nil, err
	}

	if cfg.AnalysisSchedule != "" {
		if err := sched.AddJob(cfg.AnalysisSchedule, instances.AnalyzeSnapshots); err != nil {
			return nil, err
		}
	} else {
		sched.Register(instances.AnalyzeSnapshots)
	}

	container.Scheduler = sched
	return instances, nil
}
