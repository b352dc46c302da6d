package persistence

import (
	"context"
)

// UnitOfWork coordinates repositories inside one database transaction
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context.
	// Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetTransactionRepository returns a ledger repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository
}
