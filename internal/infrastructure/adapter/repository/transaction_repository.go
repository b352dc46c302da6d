package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/model"
)

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *TransactionRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	r.logger.Error("Database error on transactions", map[string]any{
		"operation": operation,
		"user_id":   userID,
		"error":     err.Error(),
	})
	return r.errorClassifier.ToDomain(operation, err, errs.ErrNotFound)
}

// Append stores a new ledger row and sets its ID
func (r *TransactionRepository) Append(ctx context.Context, tx *entity.Transaction) error {
	m := model.Transaction{
		UserID: tx.UserID,
		Symbol: tx.Symbol,
		Shares: tx.Shares,
		Price:  tx.Price,
		Date:   tx.Date,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("append transaction", err, tx.UserID)
	}

	tx.ID = m.ID
	r.logger.Debug("Transaction appended", map[string]any{
		"transaction_id": m.ID,
		"user_id":        m.UserID,
		"symbol":         m.Symbol,
		"shares":         m.Shares,
		"price":          m.Price.String(),
	})
	return nil
}

// ListByUser returns a user's ledger rows, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	var rows []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("list transactions", err, userID)
	}

	out := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, &entity.Transaction{
			ID:     rows[i].ID,
			UserID: rows[i].UserID,
			Symbol: rows[i].Symbol,
			Shares: rows[i].Shares,
			Price:  rows[i].Price,
			Date:   rows[i].Date,
		})
	}
	return out, nil
}

// Positions sums signed shares per symbol and keeps positive sums
func (r *TransactionRepository) Positions(ctx context.Context, userID uint64) ([]entity.Position, error) {
	var rows []model.PositionRow
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("symbol, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("symbol").
		Having("SUM(shares) > 0").
		Order("symbol").
		Scan(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("aggregate positions", err, userID)
	}

	positions := make([]entity.Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, entity.Position{Symbol: row.Symbol, Shares: row.Shares})
	}
	return positions, nil
}
