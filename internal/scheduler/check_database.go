package scheduler

import (
	"fmt"

	"github.com/aristath/cryptorisk/internal/database"
	"github.com/rs/zerolog"
)

// CheckDatabaseJob verifies integrity of the snapshot database
type CheckDatabaseJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCheckDatabaseJob creates a new CheckDatabaseJob
func NewCheckDatabaseJob(db *database.DB, log zerolog.Logger) *CheckDatabaseJob {
	return &CheckDatabaseJob{
		db:  db,
		log: log.With().Str("job", "check_database").Logger(),
	}
}

// Name returns the job name
func (j *CheckDatabaseJob) Name() string {
	return "check_database"
}

// Run executes SQLite's PRAGMA integrity_check
func (j *CheckDatabaseJob) Run() error {
	if j.db == nil {
		return fmt.Errorf("database not initialized")
	}

	var result string
	if err := j.db.Conn().QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed for %s: %w", j.db.Name(), err)
	}
	if result != "ok" {
		j.log.Error().Str("database", j.db.Name()).Str("result", result).Msg("Database integrity check failed")
		return fmt.Errorf("database %s is corrupted: %s", j.db.Name(), result)
	}

	j.log.Debug().Str("database", j.db.Name()).Msg("Database integrity OK")
	return nil
}
