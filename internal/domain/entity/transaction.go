package entity

import (
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
)

// TransactionKind labels a ledger row for display
type TransactionKind string

// Transaction kinds
const (
	KindBought TransactionKind = "bought"
	KindSold   TransactionKind = "sold"
)

// Transaction is one append-only ledger row.
// Shares are signed: positive for buys, negative for sells, never zero.
type Transaction struct {
	ID     uint64
	UserID uint64
	Symbol string
	Shares int64
	Price  decimal.Decimal
	Date   time.Time
}

// NewBuy creates the ledger row for a purchase
func NewBuy(userID uint64, symbol string, shares int64, price decimal.Decimal, at time.Time) (*Transaction, error) {
	if shares <= 0 {
		return nil, errs.Validation("shares must be positive")
	}
	return newTransaction(userID, symbol, shares, price, at)
}

// NewSell creates the ledger row for a sale; the stored share count is negative
func NewSell(userID uint64, symbol string, shares int64, price decimal.Decimal, at time.Time) (*Transaction, error) {
	if shares <= 0 {
		return nil, errs.Validation("shares must be positive")
	}
	return newTransaction(userID, symbol, -shares, price, at)
}

func newTransaction(userID uint64, symbol string, shares int64, price decimal.Decimal, at time.Time) (*Transaction, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, errs.Validation("missing symbol")
	}
	if price.IsNegative() {
		return nil, errs.Validation("price cannot be negative")
	}
	return &Transaction{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Price:  NormalizePrice(price),
		Date:   at,
	}, nil
}

// Kind reports whether the row is a buy or a sell
func (t *Transaction) Kind() TransactionKind {
	if t.Shares < 0 {
		return KindSold
	}
	return KindBought
}

// AbsShares returns the unsigned share count
func (t *Transaction) AbsShares() int64 {
	if t.Shares < 0 {
		return -t.Shares
	}
	return t.Shares
}

// Total returns the settled amount of the row, in cents
func (t *Transaction) Total() decimal.Decimal {
	return SettledAmount(t.Price, t.AbsShares())
}
