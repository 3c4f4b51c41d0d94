package adapter

import (
	"time"

	"marketscan/internal/adapter/enum"

	"github.com/shopspring/decimal"
)

// Ticker is a normalized 24h statistics snapshot of one instrument.
type Ticker struct {
	Symbol   string
	Exchange enum.Exchange
	Market   enum.MarketType

	LastPrice decimal.Decimal
	Volume24h decimal.Decimal
	High24h   decimal.Decimal
	Low24h    decimal.Decimal

	// Trades24h is derived from volume and last price.
	Trades24h decimal.Decimal
	// ReportedTrades24h is the trade count carried by the payload, if any.
	ReportedTrades24h decimal.NullDecimal
	// PriceUSDT is the 24h notional, volume times last price.
	PriceUSDT decimal.Decimal

	Option    *Option
	Timestamp time.Time
}

// Option holds the contract metadata of an options ticker.
type Option struct {
	Type          enum.OptionType
	StrikePrice   decimal.Decimal
	ExercisePrice decimal.Decimal
	// ExpiryDate is formatted as 2006-01-02, or ExpiryUnknown.
	ExpiryDate string
}

const ExpiryUnknown = "N/A"

// TradeCount prefers the reported count and falls back to the derived one.
func (t Ticker) TradeCount() int64 {
	if t.ReportedTrades24h.Valid {
		return t.ReportedTrades24h.Decimal.IntPart()
	}

	return t.Trades24h.IntPart()
}
