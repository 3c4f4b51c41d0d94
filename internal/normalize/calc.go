package normalize

import "github.com/shopspring/decimal"

// TradeCount is volume divided by last price truncated toward zero. It is zero when last <= 0.
func TradeCount(volume, last decimal.Decimal) decimal.Decimal {
	if !last.IsPositive() {
		return decimal.Zero
	}

	q, _ := volume.QuoRem(last, 0)
	return q
}

// Notional is the 24h turnover in quote currency.
func Notional(volume, last decimal.Decimal) decimal.Decimal {
	return volume.Mul(last)
}

// FormatDecimal renders d in fixed-point notation keeping the scale of d.
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}

	return d.StringFixed(0)
}
