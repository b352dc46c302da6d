package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// MockWatchlistUseCase is a testify mock of usecase.WatchlistUseCase
type MockWatchlistUseCase struct {
	mock.Mock
}

// NewMockWatchlistUseCase creates a mock and registers expectation checks on cleanup
func NewMockWatchlistUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWatchlistUseCase {
	m := &MockWatchlistUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWatchlistUseCase) Create(ctx context.Context, userID uint64, symbol, targetPrice, direction string) (*entity.WatchlistEntry, error) {
	args := m.Called(ctx, userID, symbol, targetPrice, direction)
	entry, _ := args.Get(0).(*entity.WatchlistEntry)
	return entry, args.Error(1)
}

func (m *MockWatchlistUseCase) List(ctx context.Context, userID uint64) ([]entity.WatchlistStatus, error) {
	args := m.Called(ctx, userID)
	statuses, _ := args.Get(0).([]entity.WatchlistStatus)
	return statuses, args.Error(1)
}

func (m *MockWatchlistUseCase) Get(ctx context.Context, userID, id uint64) (*entity.WatchlistEntry, error) {
	args := m.Called(ctx, userID, id)
	entry, _ := args.Get(0).(*entity.WatchlistEntry)
	return entry, args.Error(1)
}

func (m *MockWatchlistUseCase) Edit(ctx context.Context, userID, id uint64, targetPrice, direction string) (*entity.WatchlistEntry, bool, error) {
	args := m.Called(ctx, userID, id, targetPrice, direction)
	entry, _ := args.Get(0).(*entity.WatchlistEntry)
	return entry, args.Bool(1), args.Error(2)
}

func (m *MockWatchlistUseCase) Delete(ctx context.Context, userID, id uint64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
