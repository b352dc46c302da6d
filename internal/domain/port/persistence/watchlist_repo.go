package persistence

import (
	"context"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// WatchlistRepository defines owner-scoped access to price alerts.
// Every lookup and mutation is keyed by (id, user_id).
type WatchlistRepository interface {
	// Create stores a new entry and sets its ID
	//
	// Possible errors:
	// - ErrPersistence: If the write fails
	Create(ctx context.Context, entry *entity.WatchlistEntry) error

	// ListByUser returns a user's entries, newest first
	ListByUser(ctx context.Context, userID uint64) ([]*entity.WatchlistEntry, error)

	// Get returns one entry owned by userID
	//
	// Possible errors:
	// - ErrNotFound: If the entry does not exist or belongs to someone else
	// - ErrPersistence: If the read fails
	Get(ctx context.Context, userID, id uint64) (*entity.WatchlistEntry, error)

	// Update stores target price and direction of an owned entry
	//
	// Possible errors:
	// - ErrNotFound: If the entry does not exist or belongs to someone else
	// - ErrPersistence: If the write fails
	Update(ctx context.Context, entry *entity.WatchlistEntry) error

	// Delete removes an owned entry
	//
	// Possible errors:
	// - ErrNotFound: If the entry does not exist or belongs to someone else
	// - ErrPersistence: If the write fails
	Delete(ctx context.Context, userID, id uint64) error
}
