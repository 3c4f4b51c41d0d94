package venue

import (
	"context"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/internal/normalize"
	"marketscan/internal/venue/binance"
	"marketscan/internal/venue/bybit"
	"marketscan/internal/venue/okx"
	"marketscan/pkg/exception"
	"marketscan/pkg/rest"

	"github.com/yanun0323/errors"
)

// Venue is the public REST surface of one exchange.
type Venue interface {
	Exchange() enum.Exchange
	Tickers(ctx context.Context, market enum.MarketType) ([]normalize.Fields, error)
	Candles(ctx context.Context, symbol string, limit int) ([]adapter.Candle, error)
	OrderBook(ctx context.Context, symbol string, depth int) (adapter.OrderBook, error)
}

var (
	_ Venue = (*binance.Binance)(nil)
	_ Venue = (*bybit.Bybit)(nil)
	_ Venue = (*okx.OKX)(nil)
)

type Config struct {
	Binance binance.Config
	Bybit   bybit.Config
	OKX     okx.Config
}

// Set indexes venues by exchange.
type Set map[enum.Exchange]Venue

// NewSet builds every supported venue on top of one shared client.
func NewSet(client *rest.Client, cfg Config) Set {
	return Set{
		enum.ExchangeBinance: binance.New(client, cfg.Binance),
		enum.ExchangeBybit:   bybit.New(client, cfg.Bybit),
		enum.ExchangeOKX:     okx.New(client, cfg.OKX),
	}
}

func (s Set) Get(exchange enum.Exchange) (Venue, error) {
	v, ok := s[exchange]
	if !ok {
		return nil, errors.Wrapf(exception.ErrVenueUnknownExchange, "exchange: %d", exchange)
	}

	return v, nil
}

// Tickers fetches the raw tickers of one (exchange, market) pair.
func (s Set) Tickers(ctx context.Context, exchange enum.Exchange, market enum.MarketType) ([]normalize.Fields, error) {
	v, err := s.Get(exchange)
	if err != nil {
		return nil, err
	}

	return v.Tickers(ctx, market)
}
