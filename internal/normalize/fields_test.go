package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSet(t *testing.T) {
	testCases := []struct {
		desc     string
		value    any
		expected bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"blank string", "  ", false},
		{"zero string", "0", false},
		{"zero decimal string", "0.000", false},
		{"number string", "12.5", true},
		{"text", "BTCUSDT", true},
		{"zero json number", json.Number("0"), false},
		{"json number", json.Number("0.1"), true},
		{"zero float", float64(0), false},
		{"float", 1.5, true},
		{"false", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsSet(tc.value))
		})
	}
}

func TestFieldsFallback(t *testing.T) {
	fields := Fields{
		"lastPrice": "0",
		"last":      json.Number("12.50"),
		"symbol":    "ETHUSDT",
		"count":     json.Number("42"),
		"bad":       "abc",
	}

	d, err := fields.Decimal("lastPrice", "last")
	require.NoError(t, err)
	assert.Equal(t, "12.50", FormatDecimal(d))

	d, err = fields.Decimal("missing", "lastPrice")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = fields.Decimal("bad")
	require.Error(t, err)

	assert.Equal(t, "ETHUSDT", fields.Text("instId", "symbol"))
	assert.Equal(t, "", fields.Text("instId"))
	assert.Equal(t, "12.5", Fields{"v": 12.5}.Text("v"))

	n, err := fields.NullDecimal("count")
	require.NoError(t, err)
	assert.True(t, n.Valid)
	assert.Equal(t, "42", n.Decimal.String())

	n, err = fields.NullDecimal("tradeCount")
	require.NoError(t, err)
	assert.False(t, n.Valid)
}
