package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// MockAuthUseCase is a testify mock of usecase.AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

// NewMockAuthUseCase creates a mock and registers expectation checks on cleanup
func NewMockAuthUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuthUseCase {
	m := &MockAuthUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuthUseCase) Register(ctx context.Context, username, password, confirmation string) (*entity.User, error) {
	args := m.Called(ctx, username, password, confirmation)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, username, password string) (*entity.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockAuthUseCase) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword, confirmation string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword, confirmation)
	return args.Error(0)
}

func (m *MockAuthUseCase) CurrentUser(ctx context.Context, userID uint64) (*entity.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}
