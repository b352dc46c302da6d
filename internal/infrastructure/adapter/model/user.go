package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the database model for accounts
type User struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	Username  string          `gorm:"not null;uniqueIndex;size:255"`
	Hash      string          `gorm:"not null;type:text"`
	Cash      decimal.Decimal `gorm:"not null;type:numeric(20,2)"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
