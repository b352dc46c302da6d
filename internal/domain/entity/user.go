package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
)

// User represents an account holding simulated cash
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	cash         decimal.Decimal // never negative
	CreatedAt    time.Time
}

// NewUser creates a user with the given starting cash
func NewUser(username, passwordHash string, startingCash decimal.Decimal, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.Validation("must provide username")
	}
	if passwordHash == "" {
		return nil, errs.Validation("must provide password")
	}
	if startingCash.IsNegative() {
		return nil, errs.Validation("starting cash cannot be negative")
	}

	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		cash:         startingCash,
		CreatedAt:    now,
	}, nil
}

// RestoreUser rebuilds a user from storage
func RestoreUser(id uint64, username, passwordHash string, cash decimal.Decimal, createdAt time.Time) *User {
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		cash:         cash,
		CreatedAt:    createdAt,
	}
}

// Cash returns the current cash balance
func (u *User) Cash() decimal.Decimal {
	return u.cash
}

// CanAfford checks whether cost can be paid out of the cash balance
func (u *User) CanAfford(cost decimal.Decimal) bool {
	return cost.LessThanOrEqual(u.cash)
}

// Debit subtracts cost from cash.
// Returns an insufficient funds error and leaves cash untouched if cost > cash.
func (u *User) Debit(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return errs.Validation("amount cannot be negative")
	}
	if !u.CanAfford(cost) {
		return errs.NewInsufficientFundsError(u.ID, cost.StringFixed(2), u.cash.StringFixed(2))
	}
	u.cash = u.cash.Sub(cost)
	return nil
}

// Credit adds a positive amount to cash
func (u *User) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.Validation("amount must be positive")
	}
	u.cash = u.cash.Add(amount)
	return nil
}
