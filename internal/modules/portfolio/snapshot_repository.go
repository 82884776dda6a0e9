package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrSnapshotNotFound is returned when a wallet has no stored snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one resolved portfolio handed over by the wallet/price fetcher.
type Snapshot struct {
	ID            string           `json:"id" msgpack:"id"`
	Wallet        string           `json:"wallet" msgpack:"wallet"`
	CapturedAt    time.Time        `json:"captured_at" msgpack:"captured_at"`
	TotalValueUSD decimal.Decimal  `json:"total_value_usd" msgpack:"total_value_usd"`
	Portfolio     domain.Portfolio `json:"portfolio" msgpack:"portfolio"`
}

// SnapshotRepositoryInterface defines the contract for snapshot storage
type SnapshotRepositoryInterface interface {
	Save(wallet string, p domain.Portfolio, capturedAt time.Time) (*Snapshot, error)
	GetLatest(wallet string) (*Snapshot, error)
	List(wallet string, limit int) ([]Snapshot, error)
	ListWallets() ([]string, error)
}

// SnapshotRepository stores snapshots in snapshots.db
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "snapshot").Logger(),
	}
}

// Save stores a new snapshot and returns it with its generated ID.
func (r *SnapshotRepository) Save(wallet string, p domain.Portfolio, capturedAt time.Time) (*Snapshot, error) {
	if wallet == "" {
		return nil, fmt.Errorf("%w: wallet is required", domain.ErrInvalidInput)
	}

	payload, err := msgpack.Marshal(p.Holdings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode holdings: %w", err)
	}

	snap := &Snapshot{
		ID:            uuid.New().String(),
		Wallet:        wallet,
		CapturedAt:    capturedAt.UTC().Truncate(time.Second),
		TotalValueUSD: p.TotalValueUSD(),
		Portfolio:     p,
	}

	_, err = r.db.Exec(`INSERT INTO snapshots (id, wallet, captured_at, total_value_usd, holding_count, holdings)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Wallet, snap.CapturedAt.Unix(), snap.TotalValueUSD.String(), len(p.Holdings), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	r.log.Debug().
		Str("snapshot_id", snap.ID).
		Str("wallet", wallet).
		Int("holdings", len(p.Holdings)).
		Msg("Snapshot saved")

	return snap, nil
}

// GetLatest returns the most recent snapshot for a wallet.
func (r *SnapshotRepository) GetLatest(wallet string) (*Snapshot, error) {
	snaps, err := r.List(wallet, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: wallet %s", ErrSnapshotNotFound, wallet)
	}
	return &snaps[0], nil
}

// List returns up to limit snapshots for a wallet, newest first. limit <= 0 means no limit.
func (r *SnapshotRepository) List(wallet string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(`SELECT id, wallet, captured_at, total_value_usd, holdings
		FROM snapshots WHERE wallet = ?
		ORDER BY captured_at DESC, rowid DESC LIMIT ?`, wallet, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snaps, nil
}

// ListWallets returns every wallet with at least one snapshot, sorted.
func (r *SnapshotRepository) ListWallets() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT wallet FROM snapshots ORDER BY wallet`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}
	return wallets, nil
}

func scanSnapshot(rows *sql.Rows) (Snapshot, error) {
	var (
		snap       Snapshot
		capturedAt int64
		total      string
		payload    []byte
	)
	if err := rows.Scan(&snap.ID, &snap.Wallet, &capturedAt, &total, &payload); err != nil {
		return Snapshot{}, err
	}

	value, err := decimal.NewFromString(total)
	if err != nil {
		return Snapshot{}, fmt.Errorf("invalid total value %q: %w", total, err)
	}
	var holdings []domain.Holding
	if err := msgpack.Unmarshal(payload, &holdings); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode holdings: %w", err)
	}

	snap.CapturedAt = time.Unix(capturedAt, 0).UTC()
	snap.TotalValueUSD = value
	snap.Portfolio = domain.NewPortfolio(holdings...)
	return snap, nil
}
