package security

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/papertrade/internal/domain/port/security"
)

// MockSessionManager is a testify mock of security.SessionManager
type MockSessionManager struct {
	mock.Mock
}

// NewMockSessionManager creates a mock and registers expectation checks on cleanup
func NewMockSessionManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionManager {
	m := &MockSessionManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionManager) Issue(ctx context.Context, userID uint64) (string, security.Session, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(security.Session), args.Error(2)
}

func (m *MockSessionManager) Verify(ctx context.Context, token string) (security.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(security.Session), args.Error(1)
}

func (m *MockSessionManager) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionManager) RevokeUser(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
