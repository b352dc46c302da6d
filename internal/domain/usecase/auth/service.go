package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/security"
)

// Service implements usecase.AuthUseCase
type Service struct {
	users        persistence.UserRepository
	hasher       security.PasswordHasher
	startingCash decimal.Decimal
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new auth service; new accounts receive startingCash
func NewService(
	users persistence.UserRepository,
	hasher security.PasswordHasher,
	startingCash decimal.Decimal,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		users:        users,
		hasher:       hasher,
		startingCash: startingCash,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Register creates an account. Only the password hash is stored.
func (s *Service) Register(ctx context.Context, username, password, confirmation string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.Validation("must provide username")
	}
	if password == "" {
		return nil, errs.Validation("must provide password")
	}
	if password != confirmation {
		return nil, errs.Validation("passwords do not match")
	}

	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, errs.ErrDuplicateUsername
	case !errors.Is(err, errs.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", map[string]any{"error": err.Error()})
		return nil, errs.ErrInternalServer
	}

	user, err := entity.NewUser(username, hash, s.startingCash, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}
	// A concurrent registration can still win the race; the unique
	// constraint reports it as a duplicate.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Login verifies credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.Validation("must provide username")
	}
	if password == "" {
		return nil, errs.Validation("must provide password")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			s.logger.Info("Login failed", map[string]any{"username": username, "reason": "unknown user"})
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Matches(user.PasswordHash, password) {
		s.logger.Info("Login failed", map[string]any{"username": username, "reason": "wrong password"})
		return nil, errs.ErrInvalidCredentials
	}

	s.logger.Debug("User logged in", map[string]any{"user_id": user.ID})
	return user, nil
}

// ChangePassword rotates the password after re-checking the old one
func (s *Service) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword, confirmation string) error {
	switch {
	case oldPassword == "":
		return errs.Validation("please provide your old password")
	case newPassword == "":
		return errs.Validation("please provide your new password")
	case confirmation == "":
		return errs.Validation("please confirm your new password")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Matches(user.PasswordHash, oldPassword) {
		return errs.InvalidCredentials("incorrect old password")
	}
	if oldPassword == newPassword {
		return errs.Validation("old password and new password are the same")
	}
	if newPassword != confirmation {
		return errs.Validation("new password does not match confirmation")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", map[string]any{"error": err.Error()})
		return errs.ErrInternalServer
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info("Password changed", map[string]any{"user_id": userID})
	return nil
}

// CurrentUser loads the account behind a session
func (s *Service) CurrentUser(ctx context.Context, userID uint64) (*entity.User, error) {
	return s.users.GetByID(ctx, userID)
}
