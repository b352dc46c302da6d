package entity

import "github.com/shopspring/decimal"

// Settlement is the outcome of a committed buy or sell
type Settlement struct {
	Transaction *Transaction
	Quote       Quote
	Cash        decimal.Decimal // cash after settlement
}
