package usecase

import (
	"context"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// WatchlistUseCase defines price alert operations of an authenticated user
type WatchlistUseCase interface {
	Create(ctx context.Context, userID uint64, symbol, targetPrice, direction string) (*entity.WatchlistEntry, error)

	// List evaluates every entry against a live quote.
	// Entries whose quote cannot be resolved are left out.
	List(ctx context.Context, userID uint64) ([]entity.WatchlistStatus, error)

	Get(ctx context.Context, userID, id uint64) (*entity.WatchlistEntry, error)

	// Edit applies non-blank fields; changed is false when nothing differs
	Edit(ctx context.Context, userID, id uint64, targetPrice, direction string) (entry *entity.WatchlistEntry, changed bool, err error)

	Delete(ctx context.Context, userID, id uint64) error
}
