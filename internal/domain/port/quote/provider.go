package quote

import (
	"context"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

// Provider resolves ticker symbols to current prices.
//
// Possible errors for both methods:
// - ErrSymbolNotFound: If the provider does not know the symbol
// - ErrQuoteUnavailable: If the provider fails or times out
type Provider interface {
	// Lookup may serve a recently cached quote; used for display
	Lookup(ctx context.Context, symbol string) (entity.Quote, error)

	// Fresh always asks the upstream provider; used for settlement
	Fresh(ctx context.Context, symbol string) (entity.Quote, error)
}
