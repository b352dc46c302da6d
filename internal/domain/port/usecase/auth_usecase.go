package usecase

import (
	"context"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// AuthUseCase defines account lifecycle operations
type AuthUseCase interface {
	// Register creates an account with the configured starting cash
	Register(ctx context.Context, username, password, confirmation string) (*entity.User, error)

	// Login verifies credentials; every failure is reported uniformly
	Login(ctx context.Context, username, password string) (*entity.User, error)

	// ChangePassword rotates the password of an authenticated user
	ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword, confirmation string) error

	// CurrentUser loads the account behind a session
	CurrentUser(ctx context.Context, userID uint64) (*entity.User, error)
}
