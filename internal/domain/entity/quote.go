package entity

import "github.com/shopspring/decimal"

// Quote is the current price of a ticker as reported by the quote provider
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}
