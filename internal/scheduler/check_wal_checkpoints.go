package scheduler

import (
	"fmt"

	"github.com/aristath/cryptorisk/internal/database"
	"github.com/rs/zerolog"
)

// walFrameWarnThreshold is the WAL size (in frames) above which a truncating checkpoint runs.
const walFrameWarnThreshold = 1000

// CheckWALCheckpointsJob monitors WAL growth of the snapshot database
type CheckWALCheckpointsJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCheckWALCheckpointsJob creates a new CheckWALCheckpointsJob
func NewCheckWALCheckpointsJob(db *database.DB, log zerolog.Logger) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		db:  db,
		log: log.With().Str("job", "check_wal_checkpoints").Logger(),
	}
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run executes a passive checkpoint and truncates the WAL when it has grown large
func (j *CheckWALCheckpointsJob) Run() error {
	if j.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, frames, checkpointed int
	err := j.db.Conn().QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed)
	if err != nil {
		return fmt.Errorf("failed to check WAL checkpoint for %s: %w", j.db.Name(), err)
	}

	if frames <= walFrameWarnThreshold {
		j.log.Debug().
			Str("database", j.db.Name()).
			Int("wal_frames", frames).
			Msg("WAL checkpoint status OK")
		return nil
	}

	j.log.Warn().
		Str("database", j.db.Name()).
		Int("wal_frames", frames).
		Int("checkpointed", checkpointed).
		Msg("WAL file is large, truncating")

	if _, err := j.db.Conn().Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to truncate WAL for %s: %w", j.db.Name(), err)
	}
	return nil
}
