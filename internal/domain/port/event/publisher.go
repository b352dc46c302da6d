package event

import (
	"context"
	"time"
)

// Event types
const (
	TypeTradeExecuted    = "trade.executed"
	TypeCashAdded        = "cash.added"
	TypeWatchlistCreated = "watchlist.created"
	TypeWatchlistUpdated = "watchlist.updated"
	TypeWatchlistDeleted = "watchlist.deleted"
)

// Event is a domain fact emitted after a successful commit
type Event struct {
	Type       string         `json:"type"`
	UserID     uint64         `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher delivers events to downstream consumers.
// Delivery is best effort; callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}
