package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
)

func TestParseShares(t *testing.T) {
	t.Run("Valid share counts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"1", 1},
			{" 10 ", 10},
			{"+3", 3},
			{"250", 250},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				shares, err := ParseShares(tc.input)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, shares)
			})
		}
	})

	t.Run("Invalid share counts", func(t *testing.T) {
		testCases := []struct {
			input   string
			message string
		}{
			{"", "missing shares"},
			{"   ", "missing shares"},
			{"0", "shares must be positive"},
			{"-4", "shares must be positive"},
			{"1.5", "invalid number of shares"},
			{"2.0", "invalid number of shares"},
			{"abc", "invalid number of shares"},
			{"1e3", "invalid number of shares"},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				_, err := ParseShares(tc.input)
				assert.ErrorIs(t, err, errs.ErrValidation)
				assert.Equal(t, tc.message, errs.PublicMessage(err))
			})
		}
	})
}

func TestParseSignedShares(t *testing.T) {
	shares, err := ParseSignedShares("-2")
	require.NoError(t, err)
	assert.Equal(t, int64(-2), shares)

	_, err = ParseSignedShares("two")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestParseCashAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		for input, expected := range map[string]string{
			"100":    "100",
			"0.01":   "0.01",
			"12.5":   "12.5",
			"1.500":  "1.5",
			" 42.10": "42.1",
			"1.234":  "1.23",
			"1.235":  "1.24",
			"1.225":  "1.22",
		} {
			t.Run(input, func(t *testing.T) {
				amount, err := ParseCashAmount(input)
				require.NoError(t, err)
				assert.True(t, amount.Equal(decimal.RequireFromString(expected)), "got %s", amount)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		for _, input := range []string{"", "-5", "0", "0.00", "0.004", "abc", "1,000", "$10", "1.2.3"} {
			t.Run(input, func(t *testing.T) {
				_, err := ParseCashAmount(input)
				assert.ErrorIs(t, err, errs.ErrValidation)
			})
		}
	})
}

func TestParseTargetPrice(t *testing.T) {
	target, err := ParseTargetPrice("220")
	require.NoError(t, err)
	assert.True(t, target.Equal(decimal.NewFromInt(220)))

	zero, err := ParseTargetPrice("0")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	precise, err := ParseTargetPrice("220.123456")
	require.NoError(t, err)
	assert.Equal(t, "220.1235", precise.String())

	for _, input := range []string{"", "-1", "x"} {
		_, err := ParseTargetPrice(input)
		assert.ErrorIs(t, err, errs.ErrValidation, input)
	}
}

func TestSettledAmount(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		shares   int64
		expected string
	}{
		{"Whole cents", "50.25", 4, "201"},
		{"Price beyond storage scale", "123.456789", 3, "370.37"},
		{"Half cent rounds to even up", "9.995", 1, "10"},
		{"Half cent rounds to even down", "10.005", 1, "10"},
		{"Above half cent", "10.006", 1, "10.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := SettledAmount(decimal.RequireFromString(tt.price), tt.shares)
			assert.True(t, amount.Equal(decimal.RequireFromString(tt.expected)), "got %s", amount)
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	assert.Equal(t, "123.4568", NormalizePrice(decimal.RequireFromString("123.456789")).String())
	assert.Equal(t, "9.995", NormalizePrice(decimal.RequireFromString("9.995")).String())
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$9,740.00", FormatUSD(decimal.RequireFromString("9740")))
	assert.Equal(t, "$0.01", FormatUSD(decimal.RequireFromString("0.005")))
	assert.Equal(t, "$1,234,567.89", FormatUSD(decimal.RequireFromString("1234567.891")))
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "IBM", NormalizeSymbol("  ibm "))
	assert.Equal(t, "", NormalizeSymbol("   "))
}
