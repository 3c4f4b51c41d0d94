package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTradeCount(t *testing.T) {
	testCases := []struct {
		desc     string
		volume   string
		last     string
		expected string
	}{
		{"truncated", "1000", "3", "333"},
		{"fraction price", "100", "0.5", "200"},
		{"zero price", "1000", "0", "0"},
		{"negative price", "1000", "-1", "0"},
		{"zero volume", "0", "12", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, TradeCount(dec(tc.volume), dec(tc.last)).String())
		})
	}
}

func TestNotional(t *testing.T) {
	assert.Equal(t, "10.000", FormatDecimal(Notional(dec("2.50"), dec("4.0"))))
	assert.Equal(t, "0", FormatDecimal(Notional(dec("0"), dec("4"))))
}

func TestFormatDecimal(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"1E-8", "0.00000001"},
		{"0.10", "0.10"},
		{"1e3", "1000"},
		{"123456789.123456789", "123456789.123456789"},
		{"-0.5", "-0.5"},
		{"42", "42"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDecimal(dec(tc.input)))
		})
	}
}
