package binance

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/internal/normalize"
	"marketscan/pkg/exception"
	"marketscan/pkg/rest"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

const (
	DefaultSpotURL    = "https://api.binance.com"
	DefaultFuturesURL = "https://fapi.binance.com"
	DefaultOptionsURL = "https://eapi.binance.com"
)

type Config struct {
	SpotURL    string
	FuturesURL string
	OptionsURL string
}

type Binance struct {
	client *rest.Client
	cfg    Config
}

func New(client *rest.Client, cfg Config) *Binance {
	if cfg.SpotURL == "" {
		cfg.SpotURL = DefaultSpotURL
	}
	if cfg.FuturesURL == "" {
		cfg.FuturesURL = DefaultFuturesURL
	}
	if cfg.OptionsURL == "" {
		cfg.OptionsURL = DefaultOptionsURL
	}

	return &Binance{client: client, cfg: cfg}
}

func (*Binance) Exchange() enum.Exchange {
	return enum.ExchangeBinance
}

// Tickers returns the raw 24h ticker objects of market.
func (b *Binance) Tickers(ctx context.Context, market enum.MarketType) ([]normalize.Fields, error) {
	var endpoint string
	switch market {
	case enum.MarketSpot:
		endpoint = b.cfg.SpotURL + "/api/v3/ticker/24hr"
	case enum.MarketFutures:
		endpoint = b.cfg.FuturesURL + "/fapi/v1/ticker/24hr"
	case enum.MarketOptions:
		endpoint = b.cfg.OptionsURL + "/eapi/v1/ticker"
	default:
		return nil, errors.Wrapf(exception.ErrVenueUnsupportedMarket, "binance market: %d", market)
	}

	var items []normalize.Fields
	if err := b.get(ctx, endpoint, nil, &items); err != nil {
		return nil, errors.Wrap(err, "get binance tickers").With("market", market.String())
	}

	return items, nil
}

// Candles returns 1m spot klines in ascending open time.
func (b *Binance) Candles(ctx context.Context, symbol string, limit int) ([]adapter.Candle, error) {
	params := url.Values{
		"symbol":   {symbol},
		"interval": {"1m"},
		"limit":    {strconv.Itoa(limit)},
	}

	var rows [][]any
	if err := b.get(ctx, b.cfg.SpotURL+"/api/v3/klines", params, &rows); err != nil {
		return nil, errors.Wrap(err, "get binance klines").With("symbol", symbol)
	}

	candles := make([]adapter.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := parseKline(row)
		if err != nil {
			return nil, errors.Wrap(err, "parse binance kline").With("symbol", symbol)
		}
		candles = append(candles, c)
	}

	return candles, nil
}

type depthResponse struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

// OrderBook returns a spot depth snapshot.
func (b *Binance) OrderBook(ctx context.Context, symbol string, depth int) (adapter.OrderBook, error) {
	params := url.Values{
		"symbol": {symbol},
		"limit":  {strconv.Itoa(depth)},
	}

	var res depthResponse
	if err := b.get(ctx, b.cfg.SpotURL+"/api/v3/depth", params, &res); err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "get binance depth").With("symbol", symbol)
	}

	bids, err := adapter.NewDepthRows(res.Bids)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "parse binance bids")
	}

	asks, err := adapter.NewDepthRows(res.Asks)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "parse binance asks")
	}

	return adapter.OrderBook{
		Symbol:   symbol,
		Exchange: enum.ExchangeBinance,
		Time:     time.Now().UTC(),
		Bids:     bids,
		Asks:     asks,
	}, nil
}

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// get surfaces {"code":..,"msg":..} error bodies as venue errors.
func (b *Binance) get(ctx context.Context, endpoint string, params url.Values, dst any) error {
	err := b.client.GetJSON(ctx, endpoint, params, dst)
	if err == nil {
		return nil
	}

	if se, ok := err.(*rest.StatusError); ok {
		var ae apiError
		if rest.Decode(se.Body, &ae) == nil && len(ae.Msg) != 0 {
			return errors.Wrapf(exception.ErrVenueResponseCode, "binance code %d: %s", ae.Code, ae.Msg)
		}
	}

	return err
}

func parseKline(row []any) (adapter.Candle, error) {
	if len(row) < 6 {
		return adapter.Candle{}, exception.ErrVenueEmptyResponse
	}

	openTime, err := normalize.ParseInt(row[0])
	if err != nil {
		return adapter.Candle{}, err
	}

	var values [5]decimal.Decimal
	for i := range values {
		d, err := normalize.ParseDecimal(row[i+1])
		if err != nil {
			return adapter.Candle{}, err
		}
		values[i] = d
	}

	return adapter.Candle{
		OpenTime: time.UnixMilli(openTime).UTC(),
		Open:     values[0],
		High:     values[1],
		Low:      values[2],
		Close:    values[3],
		Volume:   values[4],
	}, nil
}
