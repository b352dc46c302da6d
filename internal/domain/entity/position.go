package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Position is the net share count a user holds in one symbol
type Position struct {
	Symbol string
	Shares int64
}

// AggregatePositions sums signed shares per symbol and keeps only
// symbols with a positive sum, ordered by symbol.
func AggregatePositions(txs []*Transaction) []Position {
	sums := make(map[string]int64)
	for _, tx := range txs {
		sums[NormalizeSymbol(tx.Symbol)] += tx.Shares
	}

	positions := make([]Position, 0, len(sums))
	for symbol, shares := range sums {
		if shares > 0 {
			positions = append(positions, Position{Symbol: symbol, Shares: shares})
		}
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})
	return positions
}

// HeldShares returns the held share count for symbol, or 0
func HeldShares(positions []Position, symbol string) int64 {
	symbol = NormalizeSymbol(symbol)
	for _, p := range positions {
		if p.Symbol == symbol {
			return p.Shares
		}
	}
	return 0
}

// Holding is a valued position
type Holding struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

// Portfolio is the valued view of a user's positions and cash.
// Totals are rounded for display; Holdings keep full precision.
type Portfolio struct {
	Holdings   []Holding
	Cash       decimal.Decimal
	TotalValue decimal.Decimal
	GrandTotal decimal.Decimal
}

// NewPortfolio values positions with the given quotes.
// Every position must have a quote; ok is false otherwise.
func NewPortfolio(positions []Position, quotes map[string]Quote, cash decimal.Decimal) (portfolio *Portfolio, missing string, ok bool) {
	holdings := make([]Holding, 0, len(positions))
	total := decimal.Zero
	for _, p := range positions {
		q, found := quotes[p.Symbol]
		if !found {
			return nil, p.Symbol, false
		}
		value := q.Price.Mul(decimal.NewFromInt(p.Shares))
		total = total.Add(value)
		holdings = append(holdings, Holding{
			Symbol: p.Symbol,
			Name:   q.Name,
			Shares: p.Shares,
			Price:  q.Price,
			Value:  value,
		})
	}

	cashRounded := RoundForDisplay(cash)
	totalRounded := RoundForDisplay(total)
	return &Portfolio{
		Holdings:   holdings,
		Cash:       cashRounded,
		TotalValue: totalRounded,
		GrandTotal: RoundForDisplay(totalRounded.Add(cashRounded)),
	}, "", true
}
