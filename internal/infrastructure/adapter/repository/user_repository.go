package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userToEntity(m *model.User) *entity.User {
	return entity.RestoreUser(m.ID, m.Username, m.Hash, m.Cash, m.CreatedAt)
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["operation"] = operation
	fields["error"] = err.Error()

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate username", fields)
		return errs.ErrDuplicateUsername
	}

	mapped := r.errorClassifier.ToDomain(operation, err, errs.ErrUserNotFound)
	if errs.IsNotFoundError(mapped) {
		r.logger.Debug("User not found", fields)
	} else {
		r.logger.Error("Database error on users", fields)
	}
	return mapped
}

// Create inserts a new user and sets its ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	m := model.User{
		Username:  user.Username,
		Hash:      user.PasswordHash,
		Cash:      user.Cash(),
		CreatedAt: user.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("create user", err, map[string]any{"username": user.Username})
	}

	user.ID = m.ID
	r.logger.Info("User created", map[string]any{
		"user_id":  m.ID,
		"username": m.Username,
	})
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var m model.User
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("get user", err, map[string]any{"user_id": id})
	}
	return userToEntity(&m), nil
}

// GetByUsername retrieves a user by exact username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var m model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("get user by username", err, map[string]any{"username": username})
	}
	return userToEntity(&m), nil
}

// GetForUpdate retrieves a user with SELECT ... FOR UPDATE
func (r *UserRepository) GetForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	r.logger.Debug("Locking user row", map[string]any{"user_id": id})

	var m model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, r.handleDatabaseError("lock user", err, map[string]any{"user_id": id})
	}
	return userToEntity(&m), nil
}

// UpdateCash stores a new cash balance
func (r *UserRepository) UpdateCash(ctx context.Context, id uint64, cash decimal.Decimal) error {
	return r.update(ctx, "update cash", id, "cash", cash)
}

// UpdatePasswordHash replaces the stored password hash
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	return r.update(ctx, "update password", id, "hash", hash)
}

func (r *UserRepository) update(ctx context.Context, operation string, id uint64, column string, value any) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return r.handleDatabaseError(operation, result.Error, map[string]any{"user_id": id})
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{
			"user_id":   id,
			"operation": operation,
		})
		return errs.ErrUserNotFound
	}
	return nil
}
