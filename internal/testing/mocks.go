package testing

import (
	"time"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/portfolio"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotRepository is a mock implementation of SnapshotRepositoryInterface for testing
type MockSnapshotRepository struct {
	mock.Mock
}

// NewMockSnapshotRepository creates a new mock snapshot repository
func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{}
}

func (m *MockSnapshotRepository) Save(wallet string, p domain.Portfolio, capturedAt time.Time) (*portfolio.Snapshot, error) {
	args := m.Called(wallet, p, capturedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) GetLatest(wallet string) (*portfolio.Snapshot, error) {
	args := m.Called(wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) List(wallet string, limit int) ([]portfolio.Snapshot, error) {
	args := m.Called(wallet, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portfolio.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListWallets() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ portfolio.SnapshotRepositoryInterface = (*MockSnapshotRepository)(nil)
