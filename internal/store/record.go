package store

import (
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/normalize"

	"github.com/shopspring/decimal"
)

// Record is one row of market_data. Numbers are stored as fixed-point text.
type Record struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Symbol            string    `gorm:"column:symbol;not null;index" json:"symbol"`
	Exchange          string    `gorm:"column:exchange;not null" json:"exchange"`
	MarketType        string    `gorm:"column:market_type;not null" json:"market_type"`
	LastPrice         string    `gorm:"column:last_price" json:"last_price"`
	Volume24h         string    `gorm:"column:volume_24h" json:"volume_24h"`
	PriceUSDT         string    `gorm:"column:price_usdt" json:"price_usdt"`
	HighPrice24h      string    `gorm:"column:high_price_24h" json:"high_price_24h"`
	LowPrice24h       string    `gorm:"column:low_price_24h" json:"low_price_24h"`
	Trades24h         string    `gorm:"column:trades_24h" json:"trades_24h"`
	ReportedTrades24h *string   `gorm:"column:reported_trades_24h" json:"reported_trades_24h,omitempty"`
	StrikePrice       *string   `gorm:"column:strike_price" json:"strike_price,omitempty"`
	ExercisePrice     *string   `gorm:"column:exercise_price" json:"exercise_price,omitempty"`
	OptionType        *string   `gorm:"column:option_type" json:"option_type,omitempty"`
	ExpiryDate        *string   `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	Timestamp         time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (Record) TableName() string {
	return "market_data"
}

// NewRecord formats a ticker for persistence.
func NewRecord(t adapter.Ticker) Record {
	r := Record{
		Symbol:       t.Symbol,
		Exchange:     t.Exchange.String(),
		MarketType:   t.Market.String(),
		LastPrice:    normalize.FormatDecimal(t.LastPrice),
		Volume24h:    normalize.FormatDecimal(t.Volume24h),
		PriceUSDT:    normalize.FormatDecimal(t.PriceUSDT),
		HighPrice24h: normalize.FormatDecimal(t.High24h),
		LowPrice24h:  normalize.FormatDecimal(t.Low24h),
		Trades24h:    t.Trades24h.Truncate(0).String(),
		Timestamp:    t.Timestamp,
	}

	if t.ReportedTrades24h.Valid {
		r.ReportedTrades24h = text(t.ReportedTrades24h.Decimal.Truncate(0).String())
	}

	if t.Option != nil {
		r.StrikePrice = text(normalize.FormatDecimal(t.Option.StrikePrice))
		r.ExercisePrice = text(normalize.FormatDecimal(t.Option.ExercisePrice))
		r.OptionType = text(t.Option.Type.String())
		r.ExpiryDate = text(t.Option.ExpiryDate)
	}

	return r
}

func text(s string) *string {
	return &s
}

func (r Record) lastPrice() decimal.Decimal {
	d, _ := decimal.NewFromString(r.LastPrice)
	return d
}

func (r Record) volume() decimal.Decimal {
	d, _ := decimal.NewFromString(r.Volume24h)
	return d
}
