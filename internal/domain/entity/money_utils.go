package entity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
)

// CashDecimalPlaces is the scale of stored cash balances and settled amounts
const CashDecimalPlaces = 2

// PriceDecimalPlaces is the scale of stored per-share prices and watchlist targets
const PriceDecimalPlaces = 4

// DisplayDecimalPlaces is the precision used when presenting values
const DisplayDecimalPlaces = 2

var (
	integerPattern = regexp.MustCompile(`^[+]?[0-9]+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
)

// ParseShares parses a share count submitted by a user.
// Fractional or non-numeric values are rejected, never truncated.
func ParseShares(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errs.Validation("missing shares")
	}
	if !integerPattern.MatchString(raw) {
		if strings.HasPrefix(raw, "-") && integerPattern.MatchString(raw[1:]) {
			return 0, errs.Validation("shares must be positive")
		}
		return 0, errs.Validation("invalid number of shares")
	}
	shares, err := strconv.ParseInt(strings.TrimPrefix(raw, "+"), 10, 64)
	if err != nil {
		return 0, errs.Validation("invalid number of shares")
	}
	if shares <= 0 {
		return 0, errs.Validation("shares must be positive")
	}
	return shares, nil
}

// ParseSignedShares parses an integer share count without range checks.
// Sell uses it so out-of-range values can be reported as a quantity error.
func ParseSignedShares(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errs.Validation("missing shares")
	}
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.Validation("invalid shares input")
	}
	return shares, nil
}

// ParseCashAmount validates a top-up amount and rounds it to cents.
// An amount that rounds to zero is rejected.
func ParseCashAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errs.Validation("missing amount")
	}
	if !decimalPattern.MatchString(raw) {
		return decimal.Zero, errs.Validation("invalid amount")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.Validation("invalid amount")
	}
	amount = RoundCash(amount)
	if !amount.IsPositive() {
		return decimal.Zero, errs.Validation("amount must be positive")
	}
	return amount, nil
}

// ParseTargetPrice validates a watchlist target: a non-negative decimal
func ParseTargetPrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errs.Validation("missing target price")
	}
	if !decimalPattern.MatchString(raw) {
		return decimal.Zero, errs.Validation("invalid target price")
	}
	target, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.Validation("invalid target price")
	}
	if target.IsNegative() {
		return decimal.Zero, errs.Validation("target price cannot be negative")
	}
	return NormalizePrice(target), nil
}

// NormalizePrice rounds a per-share price to the stored scale
func NormalizePrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(PriceDecimalPlaces)
}

// RoundCash rounds an amount to cents, half to even
func RoundCash(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(CashDecimalPlaces)
}

// SettledAmount is what a trade of shares at price moves in cash: the
// normalised price times shares, rounded to cents
func SettledAmount(price decimal.Decimal, shares int64) decimal.Decimal {
	return RoundCash(NormalizePrice(price).Mul(decimal.NewFromInt(shares)))
}

// RoundForDisplay rounds to two places for presentation
func RoundForDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayDecimalPlaces)
}

// FormatUSD renders a decimal amount as "$1,234.56"
func FormatUSD(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}
