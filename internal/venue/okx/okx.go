package okx

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/internal/normalize"
	"marketscan/pkg/exception"
	"marketscan/pkg/rest"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const DefaultBaseURL = "https://www.okx.com"

var DefaultOptionUnderlyings = []string{"BTC-USD", "ETH-USD"}

type Config struct {
	BaseURL           string
	OptionUnderlyings []string
}

type OKX struct {
	client *rest.Client
	cfg    Config
}

func New(client *rest.Client, cfg Config) *OKX {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.OptionUnderlyings) == 0 {
		cfg.OptionUnderlyings = DefaultOptionUnderlyings
	}

	return &OKX{client: client, cfg: cfg}
}

func (*OKX) Exchange() enum.Exchange {
	return enum.ExchangeOKX
}

type envelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}

// Tickers requests every instrument type of market. Options skip a failed underlying.
func (o *OKX) Tickers(ctx context.Context, market enum.MarketType) ([]normalize.Fields, error) {
	switch market {
	case enum.MarketSpot:
		return o.tickers(ctx, url.Values{"instType": {"SPOT"}})
	case enum.MarketFutures:
		var result []normalize.Fields
		for _, instType := range []string{"FUTURES", "SWAP"} {
			items, err := o.tickers(ctx, url.Values{"instType": {instType}})
			if err != nil {
				return nil, err
			}
			result = append(result, items...)
		}
		return result, nil
	case enum.MarketOptions:
		var result []normalize.Fields
		for _, uly := range o.cfg.OptionUnderlyings {
			items, err := o.tickers(ctx, url.Values{"instType": {"OPTION"}, "uly": {uly}})
			if err != nil {
				logs.Errorf("get okx option tickers, underlying: %s, err: %+v", uly, err)
				continue
			}
			result = append(result, items...)
		}
		return result, nil
	default:
		return nil, errors.Wrapf(exception.ErrVenueUnsupportedMarket, "okx market: %d", market)
	}
}

func (o *OKX) tickers(ctx context.Context, params url.Values) ([]normalize.Fields, error) {
	data, err := get[normalize.Fields](ctx, o, "/api/v5/market/tickers", params)
	if err != nil {
		return nil, errors.Wrap(err, "get okx tickers").With("instType", params.Get("instType"))
	}

	return data, nil
}

// Candles returns 1m klines in ascending open time.
func (o *OKX) Candles(ctx context.Context, symbol string, limit int) ([]adapter.Candle, error) {
	params := url.Values{
		"instId": {InstID(symbol)},
		"bar":    {"1m"},
		"limit":  {strconv.Itoa(limit)},
	}

	rows, err := get[[]string](ctx, o, "/api/v5/market/candles", params)
	if err != nil {
		return nil, errors.Wrap(err, "get okx candles").With("symbol", symbol)
	}

	candles := make([]adapter.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := parseCandle(row)
		if err != nil {
			return nil, errors.Wrap(err, "parse okx candle").With("symbol", symbol)
		}
		candles = append(candles, c)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].OpenTime.Before(candles[j].OpenTime)
	})

	return candles, nil
}

type book struct {
	Asks [][]string `json:"asks"`
	Bids [][]string `json:"bids"`
	Ts   string     `json:"ts"`
}

// OrderBook returns an order book snapshot of sz levels per side.
func (o *OKX) OrderBook(ctx context.Context, symbol string, depth int) (adapter.OrderBook, error) {
	instID := InstID(symbol)
	params := url.Values{
		"instId": {instID},
		"sz":     {strconv.Itoa(depth)},
	}

	books, err := get[book](ctx, o, "/api/v5/market/books", params)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "get okx books").With("symbol", symbol)
	}
	if len(books) == 0 {
		return adapter.OrderBook{}, errors.Wrapf(exception.ErrVenueEmptyResponse, "okx books: %s", instID)
	}

	bids, err := adapter.NewDepthRows(books[0].Bids)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "parse okx bids")
	}

	asks, err := adapter.NewDepthRows(books[0].Asks)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "parse okx asks")
	}

	ts, _ := strconv.ParseInt(books[0].Ts, 10, 64)
	return adapter.OrderBook{
		Symbol:   instID,
		Exchange: enum.ExchangeOKX,
		Time:     time.UnixMilli(ts).UTC(),
		Bids:     bids,
		Asks:     asks,
	}, nil
}

// InstID turns a concatenated symbol such as BTCUSDT into BTC-USDT. Symbols with a dash pass through.
func InstID(symbol string) string {
	if strings.Contains(symbol, "-") {
		return symbol
	}

	upper := strings.ToUpper(symbol)
	for _, quote := range []string{"USDT", "USDC", "USD", "BTC", "ETH"} {
		if base, ok := strings.CutSuffix(upper, quote); ok && len(base) != 0 {
			return base + "-" + quote
		}
	}

	return symbol
}

// get decodes the data field of a v5 envelope. code != "0" is an error and is never cached.
func get[T any](ctx context.Context, o *OKX, path string, params url.Values) ([]T, error) {
	var env envelope[T]
	err := o.client.GetJSON(ctx, o.cfg.BaseURL+path, params, &env, func() error {
		if env.Code != "0" {
			return errors.Wrapf(exception.ErrVenueResponseCode, "okx code %s: %s", env.Code, env.Msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return env.Data, nil
}

func parseCandle(row []string) (adapter.Candle, error) {
	if len(row) < 6 {
		return adapter.Candle{}, exception.ErrVenueEmptyResponse
	}

	openTime, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return adapter.Candle{}, err
	}

	var values [5]decimal.Decimal
	for i := range values {
		d, err := decimal.NewFromString(row[i+1])
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
