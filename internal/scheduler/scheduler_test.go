package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	testutil "github.com/aristath/cryptorisk/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	runs int
	err  error
}

func (j *stubJob) Name() string { return "stub" }
func (j *stubJob) Run() error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@every 1h", &stubJob{}))
	require.NoError(t, s.AddJob("*/5 * * * *", &stubJob{}))
	assert.Error(t, s.AddJob("not a schedule", &stubJob{}))
	assert.Equal(t, []string{"stub", "stub"}, s.Jobs())

	job, ok := s.Lookup("stub")
	assert.True(t, ok)
	assert.NotNil(t, job)
	_, ok = s.Lookup("missing")
	assert.False(t, ok)

	s.Start()
	s.Stop()
}

func TestScheduler_RegisterManualJob(t *testing.T) {
	s := New(zerolog.Nop())
	job := &stubJob{}
	s.Register(job)

	assert.Equal(t, []string{"stub"}, s.Jobs())
	found, ok := s.Lookup("stub")
	require.True(t, ok)
	require.NoError(t, s.RunNow(found))
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &stubJob{err: errors.New("boom")}

	assert.Error(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)
}

type fakeAnalyzer struct {
	wallets []string
	fail    map[string]bool
	service *portfolio.PortfolioService
}

func (f *fakeAnalyzer) Wallets() ([]string, error) { return f.wallets, nil }

func (f *fakeAnalyzer) AnalyzeLatest(wallet string, template analysis.Request) (*portfolio.SnapshotAnalysis, error) {
	if f.fail[wallet] {
		return nil, portfolio.ErrSnapshotNotFound
	}
	return f.service.AnalyzeLatest(wallet, template)
}

func newSnapshotService(t *testing.T) *portfolio.PortfolioService {
	db, cleanup := testutil.NewTestDB(t, "snapshots")
	t.Cleanup(cleanup)
	repo := portfolio.NewSnapshotRepository(db.Conn(), zerolog.Nop())
	return portfolio.NewPortfolioService(repo, testutil.NewTestAnalysisService(), zerolog.Nop())
}

func TestAnalyzeSnapshotsJob_Run(t *testing.T) {
	svc := newSnapshotService(t)
	_, err := svc.Submit("alice", testutil.NewSolUsdcPortfolio(), time.Now())
	require.NoError(t, err)
	_, err = svc.Submit("bob", testutil.NewDiversifiedPortfolio(), time.Now())
	require.NoError(t, err)

	job := NewAnalyzeSnapshotsJob(svc, zerolog.Nop())
	assert.Equal(t, "analyze_snapshots", job.Name())
	assert.NoError(t, job.Run())
}

func TestAnalyzeSnapshotsJob_PartialAndTotalFailure(t *testing.T) {
	svc := newSnapshotService(t)
	_, err := svc.Submit("alice", testutil.NewSolUsdcPortfolio(), time.Now())
	require.NoError(t, err)

	partial := &fakeAnalyzer{wallets: []string{"alice", "ghost"}, fail: map[string]bool{"ghost": true}, service: svc}
	assert.NoError(t, NewAnalyzeSnapshotsJob(partial, zerolog.Nop()).Run())

	total := &fakeAnalyzer{wallets: []string{"ghost"}, fail: map[string]bool{"ghost": true}, service: svc}
	assert.Error(t, NewAnalyzeSnapshotsJob(total, zerolog.Nop()).Run())

	empty := &fakeAnalyzer{service: svc}
	assert.NoError(t, NewAnalyzeSnapshotsJob(empty, zerolog.Nop()).Run())
}

func TestCheckDatabaseJob(t *testing.T) {
	db, cleanup := testutil.NewTestDB(t, "snapshots")
	defer cleanup()

	job := NewCheckDatabaseJob(db, zerolog.Nop())
	assert.Equal(t, "check_database", job.Name())
	assert.NoError(t, job.Run())

	assert.Error(t, NewCheckDatabaseJob(nil, zerolog.Nop()).Run())
}

func TestCheckWALCheckpointsJob(t *testing.T) {
	db, cleanup := testutil.NewTestDB(t, "snapshots")
	defer cleanup()

	job := NewCheckWALCheckpointsJob(db, zerolog.Nop())
	assert.Equal(t, "check_wal_checkpoints", job.Name())
	assert.NoError(t, job.Run())

	assert.Error(t, NewCheckWALCheckpointsJob(nil, zerolog.Nop()).Run())
}
