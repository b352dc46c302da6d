package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// MockTradeUseCase is a testify mock of usecase.TradeUseCase
type MockTradeUseCase struct {
	mock.Mock
}

// NewMockTradeUseCase creates a mock and registers expectation checks on cleanup
func NewMockTradeUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTradeUseCase {
	m := &MockTradeUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTradeUseCase) Portfolio(ctx context.Context, userID uint64) (*entity.Portfolio, error) {
	args := m.Called(ctx, userID)
	portfolio, _ := args.Get(0).(*entity.Portfolio)
	return portfolio, args.Error(1)
}

func (m *MockTradeUseCase) History(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID)
	txs, _ := args.Get(0).([]*entity.Transaction)
	return txs, args.Error(1)
}

func (m *MockTradeUseCase) Positions(ctx context.Context, userID uint64) ([]entity.Position, error) {
	args := m.Called(ctx, userID)
	positions, _ := args.Get(0).([]entity.Position)
	return positions, args.Error(1)
}

func (m *MockTradeUseCase) Quote(ctx context.Context, symbol string) (entity.Quote, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(entity.Quote), args.Error(1)
}

func (m *MockTradeUseCase) Buy(ctx context.Context, userID uint64, symbol, shares string) (*entity.Settlement, error) {
	args := m.Called(ctx, userID, symbol, shares)
	settlement, _ := args.Get(0).(*entity.Settlement)
	return settlement, args.Error(1)
}

func (m *MockTradeUseCase) Sell(ctx context.Context, userID uint64, symbol, shares string) (*entity.Settlement, error) {
	args := m.Called(ctx, userID, symbol, shares)
	settlement, _ := args.Get(0).(*entity.Settlement)
	return settlement, args.Error(1)
}

func (m *MockTradeUseCase) AddCash(ctx context.Context, userID uint64, amount string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
