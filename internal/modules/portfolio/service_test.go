package portfolio_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	testutil "github.com/aristath/cryptorisk/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPortfolioService_SubmitRejectsEmptyPortfolio(t *testing.T) {
	repo := testutil.NewMockSnapshotRepository()
	svc := portfolio.NewPortfolioService(repo, testutil.NewTestAnalysisService(), zerolog.Nop())

	_, err := svc.Submit("w", domain.NewPortfolio(), time.Now())
	assert.ErrorIs(t, err, domain.ErrEmptyPortfolio)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestPortfolioService_SubmitAndAnalyzeLatest(t *testing.T) {
	db, cleanup := testutil.NewTestDB(t, "snapshots")
	defer cleanup()
	repo := portfolio.NewSnapshotRepository(db.Conn(), zerolog.Nop())
	svc := portfolio.NewPortfolioService(repo, testutil.NewTestAnalysisService(), zerolog.Nop())

	snap, err := svc.Submit("w", testutil.NewSolUsdcPortfolio(), time.Time{})
	require.NoError(t, err)

	res, err := svc.AnalyzeLatest("w", analysis.Request{
		Scenarios: []domain.Scenario{{Label: "crash", Kind: domain.ScenarioMarketShock, ShockMultiplier: -0.3}},
	})
	require.NoError(t, err)

	assert.Equal(t, snap.ID, res.Snapshot.ID)
	assert.InDelta(t, 0.7222, res.Analysis.Concentration.HHI, 1e-4)
	assert.Len(t, res.Analysis.Scenarios, 1)
}

func TestPortfolioService_AnalyzeLatestPropagatesErrors(t *testing.T) {
	repo := testutil.NewMockSnapshotRepository()
	repo.On("GetLatest", "w").Return(nil, portfolio.ErrSnapshotNotFound)
	svc := portfolio.NewPortfolioService(repo, testutil.NewTestAnalysisService(), zerolog.Nop())

	_, err := svc.AnalyzeLatest("w", analysis.Request{})
	assert.True(t, errors.Is(err, portfolio.ErrSnapshotNotFound))
	repo.AssertExpectations(t)
}
