package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/model"
)

// WatchlistRepository implements persistence.WatchlistRepository using GORM.
// Every statement is scoped by user_id.
type WatchlistRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWatchlistRepository creates a new WatchlistRepository instance
func NewWatchlistRepository(db *gorm.DB, logger coreport.Logger) *WatchlistRepository {
	return &WatchlistRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func watchlistToEntity(m *model.WatchlistEntry) *entity.WatchlistEntry {
	return &entity.WatchlistEntry{
		ID:          m.ID,
		UserID:      m.UserID,
		Symbol:      m.Symbol,
		TargetPrice: m.TargetPrice,
		Direction:   entity.Direction(m.Direction),
		CreatedAt:   m.Timestamp,
	}
}

func (r *WatchlistRepository) handleDatabaseError(operation string, err error, userID, id uint64) error {
	mapped := r.errorClassifier.ToDomain(operation, err, errs.NotFound("watchlist entry not found"))
	if !errs.IsNotFoundError(mapped) {
		r.logger.Error("Database error on watchlist", map[string]any{
			"operation":    operation,
			"user_id":      userID,
			"watchlist_id": id,
			"error":        err.Error(),
		})
	}
	return mapped
}

// Create stores a new entry and sets its ID
func (r *WatchlistRepository) Create(ctx context.Context, entry *entity.WatchlistEntry) error {
	m := model.WatchlistEntry{
		UserID:      entry.UserID,
		Symbol:      entry.Symbol,
		TargetPrice: entry.TargetPrice,
		Direction:   string(entry.Direction),
		Timestamp:   entry.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("create watchlist entry", err, entry.UserID, 0)
	}
	entry.ID = m.ID
	return nil
}

// ListByUser returns a user's entries, newest first
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.WatchlistEntry, error) {
	var rows []model.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("list watchlist", err, userID, 0)
	}

	out := make([]*entity.WatchlistEntry, 0, len(rows))
	for i := range rows {
		out = append(out, watchlistToEntity(&rows[i]))
	}
	return out, nil
}

// Get returns one entry owned by userID
func (r *WatchlistRepository) Get(ctx context.Context, userID, id uint64) (*entity.WatchlistEntry, error) {
	var m model.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		return nil, r.handleDatabaseError("get watchlist entry", err, userID, id)
	}
	return watchlistToEntity(&m), nil
}

// Update stores target price and direction of an owned entry
func (r *WatchlistRepository) Update(ctx context.Context, entry *entity.WatchlistEntry) error {
	result := r.db.WithContext(ctx).
		Model(&model.WatchlistEntry{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]any{
			"target_price": entry.TargetPrice,
			"direction":    string(entry.Direction),
		})
	if result.Error != nil {
		return r.handleDatabaseError("update watchlist entry", result.Error, entry.UserID, entry.ID)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("watchlist entry not found")
	}
	return nil
}

// Delete removes an owned entry
func (r *WatchlistRepository) Delete(ctx context.Context, userID, id uint64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.WatchlistEntry{})
	if result.Error != nil {
		return r.handleDatabaseError("delete watchlist entry", result.Error, userID, id)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("watchlist entry not found")
	}
	return nil
}
