package normalize

import (
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/pkg/exception"

	"github.com/yanun0323/errors"
)

// Normalize maps one payload object onto a Ticker. An error rejects this object only.
func Normalize(exchange enum.Exchange, market enum.MarketType, fields Fields, now time.Time) (adapter.Ticker, error) {
	rule, ok := RuleFor(exchange, market)
	if !ok {
		return adapter.Ticker{}, errors.Wrapf(exception.ErrNormalizeNoRule, "%s %s", exchange, market)
	}

	return rule.Apply(exchange, market, fields, now)
}

// Apply runs the fallback chains of r over fields.
func (r Rule) Apply(exchange enum.Exchange, market enum.MarketType, fields Fields, now time.Time) (adapter.Ticker, error) {
	t := adapter.Ticker{
		Symbol:    fields.Text(r.Symbol...),
		Exchange:  exchange,
		Market:    market,
		Timestamp: now,
	}
	if len(t.Symbol) == 0 {
		return adapter.Ticker{}, exception.ErrNormalizeEmptySymbol
	}

	var err error
	if t.LastPrice, err = fields.Decimal(r.Last...); err != nil {
		return adapter.Ticker{}, errors.Wrap(err, "last price").With("symbol", t.Symbol)
	}

	if t.Volume24h, err = fields.Decimal(r.Volume...); err != nil {
		return adapter.Ticker{}, errors.Wrap(err, "volume").With("symbol", t.Symbol)
	}

	if t.High24h, err = fields.Decimal(r.High...); err != nil {
		return adapter.Ticker{}, errors.Wrap(err, "high price").With("symbol", t.Symbol)
	}

	if t.Low24h, err = fields.Decimal(r.Low...); err != nil {
		return adapter.Ticker{}, errors.Wrap(err, "low price").With("symbol", t.Symbol)
	}

	if len(r.ReportedTrades) != 0 {
		if t.ReportedTrades24h, err = fields.NullDecimal(r.ReportedTrades...); err != nil {
			return adapter.Ticker{}, errors.Wrap(err, "reported trades").With("symbol", t.Symbol)
		}
	}

	if r.Option != nil {
		if t.Option, err = r.Option(t.Symbol, fields); err != nil {
			return adapter.Ticker{}, err
		}
	}

	t.Trades24h = TradeCount(t.Volume24h, t.LastPrice)
	if len(r.TradeVolume) != 0 {
		tv, err := fields.Decimal(r.TradeVolume...)
		if err != nil {
			return adapter.Ticker{}, errors.Wrap(err, "trade volume").With("symbol", t.Symbol)
		}
		// a zero count from the trade volume falls back to the stored volume
		if n := TradeCount(tv, t.LastPrice); !n.IsZero() {
			t.Trades24h = n
		}
	}
	t.PriceUSDT = Notional(t.Volume24h, t.LastPrice)

	return t, nil
}
