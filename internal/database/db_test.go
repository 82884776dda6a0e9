package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, name string) *DB {
	t.Helper()
	db, err := New(Config{Path: filepath.Join(t.TempDir(), name+".db"), Name: name})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBuildConnectionString(t *testing.T) {
	standard := buildConnectionString("/tmp/a.db", ProfileStandard)
	assert.Contains(t, standard, "/tmp/a.db?_pragma=journal_mode(WAL)")
	assert.Contains(t, standard, "synchronous(NORMAL)")

	cache := buildConnectionString("file:mem?mode=memory", ProfileCache)
	assert.Contains(t, cache, "file:mem?mode=memory&_pragma=journal_mode(WAL)")
	assert.Contains(t, cache, "synchronous(OFF)")
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("")
	require.NoError(t, err)
	assert.Equal(t, ProfileStandard, p)

	p, err = ParseProfile(" Cache ")
	require.NoError(t, err)
	assert.Equal(t, ProfileCache, p)

	_, err = ParseProfile("ledger")
	assert.Error(t, err)
}

func TestNew_CacheProfile(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "snapshots.db"), Profile: ProfileCache, Name: "snapshots"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())
	assert.Equal(t, ProfileCache, db.Profile())

	var synchronous int
	require.NoError(t, db.Conn().QueryRow("PRAGMA synchronous").Scan(&synchronous))
	assert.Equal(t, 0, synchronous)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, ProfileCache, stats.Profile)
}

func TestMigrate_CreatesSnapshotsTable(t *testing.T) {
	db := newTestDB(t, "snapshots")

	require.NoError(t, db.Migrate())
	// idempotent
	require.NoError(t, db.Migrate())

	var name string
	err := db.Conn().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='snapshots'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "snapshots", name)
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db := newTestDB(t, "scratch")
	assert.NoError(t, db.Migrate())
}

func TestWithTransaction(t *testing.T) {
	db := newTestDB(t, "scratch")
	_, err := db.Conn().Exec("CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)

	err = WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO t VALUES (1)")
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t VALUES (2)"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, _ = tx.Exec("INSERT INTO t VALUES (3)")
		panic("bad")
	})
	assert.ErrorContains(t, err, "panic in transaction")

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, 1, count)

	assert.Error(t, WithTransaction(nil, func(*sql.Tx) error { return nil }))
}

func TestQuickCheckAndStats(t *testing.T) {
	db := newTestDB(t, "snapshots")
	require.NoError(t, db.Migrate())

	assert.NoError(t, db.QuickCheck(context.Background()))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageSize, int64(0))
	assert.Greater(t, stats.PageCount, int64(0))
}
