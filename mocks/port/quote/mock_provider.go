package quote

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// MockProvider is a testify mock of quote.Provider
type MockProvider struct {
	mock.Mock
}

// NewMockProvider creates a mock and registers expectation checks on cleanup
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProvider) Lookup(ctx context.Context, symbol string) (entity.Quote, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(entity.Quote), args.Error(1)
}

func (m *MockProvider) Fresh(ctx context.Context, symbol string) (entity.Quote, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(entity.Quote), args.Error(1)
}
