// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for the snapshot database (always absolute)
	DatabaseProfile  string // "standard" or "cache"
	PolicyFile       string // Optional YAML risk policy overlay
	AnalysisSchedule string // Cron schedule for re-analysis; empty leaves it manual-only
	LogLevel         string
	Port             int
	Workers          int // Scenario worker count
	Seed             uint64
	DevMode          bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("RISK_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		DatabaseProfile:  getEnv("RISK_DB_PROFILE", "standard"),
		PolicyFile:       getEnv("RISK_POLICY_FILE", ""),
		AnalysisSchedule: getEnv("RISK_ANALYSIS_SCHEDULE", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnvAsInt("RISK_PORT", 8010),
		Workers:          getEnvAsInt("RISK_WORKERS", 4),
		Seed:             getEnvAsUint64("RISK_SEED", 42),
		DevMode:          getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	return nil
}

// DatabasePath returns the snapshot database location inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "snapshots.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
