// Package portfolio stores resolved wallet portfolios and runs analyses over them.
package portfolio

import (
	"fmt"
	"time"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/weighting"
	"github.com/rs/zerolog"
)

// Analyzer defines the analysis entry point used by the portfolio service
type Analyzer interface {
	Analyze(req analysis.Request) (*analysis.Result, error)
}

// SnapshotAnalysis pairs a stored snapshot with a fresh analysis of it.
type SnapshotAnalysis struct {
	Snapshot *Snapshot       `json:"snapshot" msgpack:"snapshot"`
	Analysis *analysis.Result `json:"analysis" msgpack:"analysis"`
}

// PortfolioService orchestrates snapshot storage and on-demand analysis.
//
// Snapshots are inputs only: analyses are recomputed on every request and
// never written back.
type PortfolioService struct {
	repo     SnapshotRepositoryInterface
	analyzer Analyzer
	log      zerolog.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(repo SnapshotRepositoryInterface, analyzer Analyzer, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		repo:     repo,
		analyzer: analyzer,
		log:      log.With().Str("service", "portfolio").Logger(),
	}
}

// Submit validates and stores a portfolio for a wallet.
func (s *PortfolioService) Submit(wallet string, p domain.Portfolio, capturedAt time.Time) (*Snapshot, error) {
	if _, err := weighting.ComputeWeights(p); err != nil {
		return nil, err
	}
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}
	snap, err := s.repo.Save(wallet, p, capturedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.log.Info().Str("wallet", wallet).Str("snapshot_id", snap.ID).Msg("Portfolio snapshot stored")
	return snap, nil
}

// Latest returns a wallet's most recent snapshot.
func (s *PortfolioService) Latest(wallet string) (*Snapshot, error) {
	return s.repo.GetLatest(wallet)
}

// History returns up to limit snapshots for a wallet, newest first.
func (s *PortfolioService) History(wallet string, limit int) ([]Snapshot, error) {
	return s.repo.List(wallet, limit)
}

// Wallets lists every wallet with stored snapshots.
func (s *PortfolioService) Wallets() ([]string, error) {
	return s.repo.ListWallets()
}

// AnalyzeLatest analyzes a wallet's most recent snapshot. The template request supplies
// scenarios and overrides; its portfolio is replaced by the snapshot's.
func (s *PortfolioService) AnalyzeLatest(wallet string, template analysis.Request) (*SnapshotAnalysis, error) {
	snap, err := s.repo.GetLatest(wallet)
	if err != nil {
		return nil, err
	}

	template.Portfolio = snap.Portfolio
	res, err := s.analyzer.Analyze(template)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze snapshot %s: %w", snap.ID, err)
	}
	return &SnapshotAnalysis{Snapshot: snap, Analysis: res}, nil
}
