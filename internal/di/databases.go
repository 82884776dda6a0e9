package di

import (
	"fmt"

	"github.com/aristath/cryptorisk/internal/config"
	"github.com/aristath/cryptorisk/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens snapshots.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	profile, err := database.ParseProfile(cfg.DatabaseProfile)
	if err != nil {
		return nil, err
	}

	snapshotsDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: profile,
		Name:    "snapshots",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshots database: %w", err)
	}

	if err := snapshotsDB.Migrate(); err != nil {
		snapshotsDB.Close()
		return nil, fmt.Errorf("failed to migrate snapshots database: %w", err)
	}
	container.SnapshotsDB = snapshotsDB

	log.Info().
		Str("path", snapshotsDB.Path()).
		Str("profile", string(snapshotsDB.Profile())).
		Msg("Database initialized")
	return container, nil
}
