package persistence

import (
	"context"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// TransactionRepository gives append-only access to the trade ledger
type TransactionRepository interface {
	// Append stores a new ledger row and sets its ID
	//
	// Possible errors:
	// - ErrPersistence: If the write fails
	Append(ctx context.Context, tx *entity.Transaction) error

	// ListByUser returns a user's ledger rows, newest first
	//
	// Possible errors:
	// - ErrPersistence: If the read fails
	ListByUser(ctx context.Context, userID uint64) ([]*entity.Transaction, error)

	// Positions returns the held positions (positive share sums) of a user
	//
	// Possible errors:
	// - ErrPersistence: If the read fails
	Positions(ctx context.Context, userID uint64) ([]entity.Position, error)
}
