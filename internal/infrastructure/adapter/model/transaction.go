package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one ledger row. Sells carry negative shares.
type Transaction struct {
	ID     uint64          `gorm:"primaryKey;autoIncrement"`
	UserID uint64          `gorm:"not null;index:idx_transactions_user_symbol,priority:1"`
	Symbol string          `gorm:"not null;size:16;index:idx_transactions_user_symbol,priority:2"`
	Shares int64           `gorm:"not null"`
	Price  decimal.Decimal `gorm:"not null;type:numeric(20,4)"`
	Date   time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// PositionRow is the result of the position aggregation query
type PositionRow struct {
	Symbol string
	Shares int64
}
