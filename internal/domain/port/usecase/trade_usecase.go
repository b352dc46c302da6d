package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// TradeUseCase defines ledger operations of an authenticated user.
// Raw form values are passed through; parsing and validation happen inside.
type TradeUseCase interface {
	Portfolio(ctx context.Context, userID uint64) (*entity.Portfolio, error)
	History(ctx context.Context, userID uint64) ([]*entity.Transaction, error)
	Positions(ctx context.Context, userID uint64) ([]entity.Position, error)
	Quote(ctx context.Context, symbol string) (entity.Quote, error)

	Buy(ctx context.Context, userID uint64, symbol, shares string) (*entity.Settlement, error)
	Sell(ctx context.Context, userID uint64, symbol, shares string) (*entity.Settlement, error)

	// AddCash tops up cash and returns the new balance
	AddCash(ctx context.Context, userID uint64, amount string) (decimal.Decimal, error)
}
