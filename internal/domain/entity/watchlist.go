package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
)

// Direction is the side of the target price that fires an alert
type Direction string

// Directions
const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// ParseDirection accepts "above" or "below" in any case
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case DirectionAbove:
		return DirectionAbove, nil
	case DirectionBelow:
		return DirectionBelow, nil
	case "":
		return "", errs.Validation("missing direction")
	default:
		return "", errs.Validation("direction must be above or below")
	}
}

// WatchlistEntry is a price alert owned by one user
type WatchlistEntry struct {
	ID          uint64
	UserID      uint64
	Symbol      string
	TargetPrice decimal.Decimal
	Direction   Direction
	CreatedAt   time.Time
}

// NewWatchlistEntry validates and builds a new alert
func NewWatchlistEntry(userID uint64, symbol string, target decimal.Decimal, direction Direction, now time.Time) (*WatchlistEntry, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, errs.Validation("missing symbol")
	}
	if target.IsNegative() {
		return nil, errs.Validation("target price cannot be negative")
	}
	if direction != DirectionAbove && direction != DirectionBelow {
		return nil, errs.Validation("direction must be above or below")
	}
	return &WatchlistEntry{
		UserID:      userID,
		Symbol:      symbol,
		TargetPrice: target,
		Direction:   direction,
		CreatedAt:   now,
	}, nil
}

// Triggered compares a live price against the target.
// Equality never triggers.
func (w *WatchlistEntry) Triggered(price decimal.Decimal) bool {
	switch w.Direction {
	case DirectionAbove:
		return price.GreaterThan(w.TargetPrice)
	case DirectionBelow:
		return price.LessThan(w.TargetPrice)
	default:
		return false
	}
}

// WatchlistStatus is an entry evaluated against its current quote
type WatchlistStatus struct {
	Entry     WatchlistEntry
	Quote     Quote
	Triggered bool
}
