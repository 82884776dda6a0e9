package scheduler

import (
	"errors"
	"fmt"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// SnapshotAnalyzer is the part of the portfolio service the job needs
type SnapshotAnalyzer interface {
	Wallets() ([]string, error)
	AnalyzeLatest(wallet string, template analysis.Request) (*portfolio.SnapshotAnalysis, error)
}

// AnalyzeSnapshotsJob re-analyzes the latest snapshot of every wallet and logs a summary.
// Results are logged only, never stored.
type AnalyzeSnapshotsJob struct {
	service SnapshotAnalyzer
	log     zerolog.Logger
}

// NewAnalyzeSnapshotsJob creates a new AnalyzeSnapshotsJob
func NewAnalyzeSnapshotsJob(service SnapshotAnalyzer, log zerolog.Logger) *AnalyzeSnapshotsJob {
	return &AnalyzeSnapshotsJob{
		service: service,
		log:     log.With().Str("job", "analyze_snapshots").Logger(),
	}
}

// Name returns the job name
func (j *AnalyzeSnapshotsJob) Name() string {
	return "analyze_snapshots"
}

// Run executes the job. A wallet whose snapshot cannot be analyzed is logged and
// skipped; the job fails only when every wallet failed.
func (j *AnalyzeSnapshotsJob) Run() error {
	wallets, err := j.service.Wallets()
	if err != nil {
		return fmt.Errorf("failed to list wallets: %w", err)
	}

	failed := 0
	for _, wallet := range wallets {
		res, err := j.service.AnalyzeLatest(wallet, analysis.Request{})
		if err != nil {
			failed++
			j.log.Error().Err(err).Str("wallet", wallet).Msg("Snapshot analysis failed")
			continue
		}

		profile := res.Analysis.RiskProfile
		event := j.log.Info()
		if res.Analysis.Concentration.Label == domain.DiversificationLow {
			event = j.log.Warn()
		}
		event.
			Str("wallet", wallet).
			Str("snapshot_id", res.Snapshot.ID).
			Float64("total_value_usd", res.Analysis.TotalValueUSD).
			Float64("volatility", profile.Volatility).
			Float64("var_95_usd", profile.VaR95USD).
			Float64("hhi", res.Analysis.Concentration.HHI).
			Str("diversification", string(res.Analysis.Concentration.Label)).
			Msg("Snapshot analyzed")
	}

	if len(wallets) > 0 && failed == len(wallets) {
		return errors.New("analysis failed for every wallet")
	}
	j.log.Info().Int("wallets", len(wallets)).Int("failed", failed).Msg("Snapshot analysis run complete")
	return nil
}
