package adapter

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one kline bar.
type Candle struct {
	OpenTime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}
