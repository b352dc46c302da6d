package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WatchlistEntry represents the database model for price alerts
type WatchlistEntry struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	UserID      uint64          `gorm:"not null;index"`
	Symbol      string          `gorm:"not null;size:16"`
	TargetPrice decimal.Decimal `gorm:"not null;type:numeric(20,4)"`
	Direction   string          `gorm:"not null;size:8"`
	Timestamp   time.Time       `gorm:"not null"`
}

// TableName specifies the table name for WatchlistEntry
func (WatchlistEntry) TableName() string {
	return "watchlist"
}
