package bybit

import (
	"context"
	"net/url"
	"sort"
	"strconv"
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

const DefaultBaseURL = "https://api.bybit.com"

var DefaultOptionBaseCoins = []string{"BTC", "ETH"}

type Config struct {
	BaseURL         string
	OptionBaseCoins []string
}

type Bybit struct {
	client *rest.Client
	cfg    Config
}

func New(client *rest.Client, cfg Config) *Bybit {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.OptionBaseCoins) == 0 {
		cfg.OptionBaseCoins = DefaultOptionBaseCoins
	}

	return &Bybit{client: client, cfg: cfg}
}

func (*Bybit) Exchange() enum.Exchange {
	return enum.ExchangeBybit
}

type envelope[T any] struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  T      `json:"result"`
}

type listResult[T any] struct {
	Category string `json:"category"`
	List     []T    `json:"list"`
}

// Tickers requests every category of market. Spot and futures fail on the first failed
// category. Options skip a failed base coin.
func (b *Bybit) Tickers(ctx context.Context, market enum.MarketType) ([]normalize.Fields, error) {
	switch market {
	case enum.MarketSpot:
		return b.tickers(ctx, url.Values{"category": {"spot"}})
	case enum.MarketFutures:
		var result []normalize.Fields
		for _, category := range []string{"linear", "inverse"} {
			items, err := b.tickers(ctx, url.Values{"category": {category}})
			if err != nil {
				return nil, err
			}
			result = append(result, items...)
		}
		return result, nil
	case enum.MarketOptions:
		var result []normalize.Fields
		for _, coin := range b.cfg.OptionBaseCoins {
			items, err := b.tickers(ctx, url.Values{"category": {"option"}, "baseCoin": {coin}})
			if err != nil {
				logs.Errorf("get bybit option tickers, base coin: %s, err: %+v", coin, err)
				continue
			}
			result = append(result, items...)
		}
		return result, nil
	default:
		return nil, errors.Wrapf(exception.ErrVenueUnsupportedMarket, "bybit market: %d", market)
	}
}

func (b *Bybit) tickers(ctx context.Context, params url.Values) ([]normalize.Fields, error) {
	res, err := get[listResult[normalize.Fields]](ctx, b, "/v5/market/tickers", params)
	if err != nil {
		return nil, errors.Wrap(err, "get bybit tickers").With("category", params.Get("category"))
	}

	return res.List, nil
}

// Candles returns 1m spot klines in ascending open time.
func (b *Bybit) Candles(ctx context.Context, symbol string, limit int) ([]adapter.Candle, error) {
	params := url.Values{
		"category": {"spot"},
		"symbol":   {symbol},
		"interval": {"1"},
		"limit":    {strconv.Itoa(limit)},
	}

	res, err := get[listResult[[]string]](ctx, b, "/v5/market/kline", params)
	if err != nil {
		return nil, errors.Wrap(err, "get bybit kline").With("symbol", symbol)
	}

	candles := make([]adapter.Candle, 0, len(res.List))
	for _, row := range res.List {
		c, err := parseKline(row)
		if err != nil {
			return nil, errors.Wrap(err, "parse bybit kline").With("symbol", symbol)
		}
		candles = append(candles, c)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].OpenTime.Before(candles[j].OpenTime)
	})

	return candles, nil
}

type bookResult struct {
	Symbol string     `json:"s"`
	Bids   [][]string `json:"b"`
	Asks   [][]string `json:"a"`
	Ts     int64      `json:"ts"`
}

// OrderBook returns a spot order book snapshot.
func (b *Bybit) OrderBook(ctx context.Context, symbol string, depth int) (adapter.OrderBook, error) {
	params := url.Values{
		"category": {"spot"},
		"symbol":   {symbol},
		"limit":    {strconv.Itoa(depth)},
	}

	res, err := get[bookResult](ctx, b, "/v5/market/orderbook", params)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "get bybit orderbook").With("symbol", symbol)
	}

	bids, err := adapter.NewDepthRows(res.Bids)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "parse bybit bids")
	}

	asks, err := adapter.NewDepthRows(res.Asks)
	if err != nil {
		return adapter.OrderBook{}, errors.Wrap(err, "parse bybit asks")
	}

	return adapter.OrderBook{
		Symbol:   symbol,
		Exchange: enum.ExchangeBybit,
		Time:     time.UnixMilli(res.Ts).UTC(),
		Bids:     bids,
		Asks:     asks,
	}, nil
}

// get decodes the result field of a v5 envelope. retCode != 0 is an error and is never cached.
func get[T any](ctx context.Context, b *Bybit, path string, params url.Values) (T, error) {
	var env envelope[T]
	err := b.client.GetJSON(ctx, b.cfg.BaseURL+path, params, &env, func() error {
		if env.RetCode != 0 {
			return errors.Wrapf(exception.ErrVenueResponseCode, "bybit retCode %d: %s", env.RetCode, env.RetMsg)
		}
		return nil
	})
	if err != nil {
		return env.Result, err
	}

	return env.Result, nil
}

func parseKline(row []string) (adapter.Candle, error) {
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
