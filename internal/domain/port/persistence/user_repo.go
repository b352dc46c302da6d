package persistence

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// UserRepository defines methods to interact with user accounts
type UserRepository interface {
	// Create inserts a new user and sets its ID
	//
	// Possible errors:
	// - ErrDuplicateUsername: If the username is already taken
	// - ErrPersistence: If the write fails
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrPersistence: If the read fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByUsername retrieves a user by exact username
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has that username
	// - ErrPersistence: If the read fails
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// GetForUpdate retrieves a user and locks the row until the surrounding
	// unit of work ends. Only meaningful inside UnitOfWork.Begin.
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrPersistence: If the read fails
	GetForUpdate(ctx context.Context, id uint64) (*entity.User, error)

	// UpdateCash stores a new cash balance
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrPersistence: If the write fails
	UpdateCash(ctx context.Context, id uint64, cash decimal.Decimal) error

	// UpdatePasswordHash replaces the stored password hash
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrPersistence: If the write fails
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
}
