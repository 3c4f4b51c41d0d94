package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/internal/store"
	"marketscan/internal/venue"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"
)

const (
	defaultSymbol      = "BTCUSDT"
	defaultCandleLimit = 120
	maxCandleLimit     = 1000
	defaultDepth       = 20
	maxDepth           = 500
	defaultTickerLimit = 1000
)

// TickerQuerier reads stored ticker rows.
type TickerQuerier interface {
	Query(ctx context.Context, f store.Filter) ([]store.Record, error)
}

// Venues resolves the live venue of an exchange.
type Venues interface {
	Get(exchange enum.Exchange) (venue.Venue, error)
}

type Handler struct {
	tickers TickerQuerier
	venues  Venues
}

func NewHandler(tickers TickerQuerier, venues Venues) *Handler {
	return &Handler{tickers: tickers, venues: venues}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tickers", h.GetTickers)
	mux.HandleFunc("GET /api/candles", h.GetCandles)
	mux.HandleFunc("GET /api/orderbook", h.GetOrderBook)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type TickersResponse struct {
	Count   int            `json:"count"`
	Tickers []store.Record `json:"tickers"`
}

type CandleResponse struct {
	OpenTime int64  `json:"open_time"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type CandlesResponse struct {
	Exchange string           `json:"exchange"`
	Symbol   string           `json:"symbol"`
	Candles  []CandleResponse `json:"candles"`
}

type LevelResponse struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type OrderBookResponse struct {
	Exchange  string          `json:"exchange"`
	Symbol    string          `json:"symbol"`
	Timestamp int64           `json:"timestamp"`
	Bids      []LevelResponse `json:"bids"`
	Asks      []LevelResponse `json:"asks"`
}

// GetTickers handles GET /api/tickers
func (h *Handler) GetTickers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.Filter{
		Exchange: q.Get("exchange"),
		Market:   q.Get("market"),
		Search:   q.Get("search"),
		Limit:    defaultTickerLimit,
	}

	if !isAll(f.Exchange) {
		if _, ok := enum.ParseExchange(f.Exchange); !ok {
			writeError(w, http.StatusBadRequest, "unknown exchange: "+f.Exchange)
			return
		}
	}
	if !isAll(f.Market) {
		if _, ok := enum.ParseMarketType(f.Market); !ok {
			writeError(w, http.StatusBadRequest, "unknown market: "+f.Market)
			return
		}
	}

	var err error
	if f.MinPrice, err = parseNullDecimal(q.Get("min_price")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_price: "+q.Get("min_price"))
		return
	}
	if f.MinVolume, err = parseNullDecimal(q.Get("min_volume")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_volume: "+q.Get("min_volume"))
		return
	}
	if f.Limit, err = parseInt(q.Get("limit"), defaultTickerLimit, 0); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit: "+q.Get("limit"))
		return
	}

	rows, err := h.tickers.Query(r.Context(), f)
	if err != nil {
		logs.Errorf("query tickers, err: %+v", err)
		writeError(w, http.StatusInternalServerError, "failed to query tickers")
		return
	}

	writeJSON(w, http.StatusOK, TickersResponse{Count: len(rows), Tickers: rows})
}

// GetCandles handles GET /api/candles
func (h *Handler) GetCandles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, ok := h.venue(w, q.Get("exchange"))
	if !ok {
		return
	}

	limit, err := parseInt(q.Get("limit"), defaultCandleLimit, maxCandleLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit: "+q.Get("limit"))
		return
	}

	symbol := symbolParam(q.Get("symbol"))
	candles, err := v.Candles(r.Context(), symbol, limit)
	if err != nil {
		logs.Errorf("get %s candles %s, err: %+v", v.Exchange(), symbol, err)
		writeError(w, http.StatusBadGateway, "upstream candles failed: "+err.Error())
		return
	}

	res := CandlesResponse{
		Exchange: v.Exchange().String(),
		Symbol:   symbol,
		Candles:  make([]CandleResponse, 0, len(candles)),
	}
	for _, c := range candles {
		res.Candles = append(res.Candles, CandleResponse{
			OpenTime: c.OpenTime.UnixMilli(),
			Open:     c.Open.String(),
			High:     c.High.String(),
			Low:      c.Low.String(),
			Close:    c.Close.String(),
			Volume:   c.Volume.String(),
		})
	}

	writeJSON(w, http.StatusOK, res)
}

// GetOrderBook handles GET /api/orderbook
func (h *Handler) GetOrderBook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, ok := h.venue(w, q.Get("exchange"))
	if !ok {
		return
	}

	depth, err := parseInt(q.Get("depth"), defaultDepth, maxDepth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid depth: "+q.Get("depth"))
		return
	}

	symbol := symbolParam(q.Get("symbol"))
	book, err := v.OrderBook(r.Context(), symbol, depth)
	if err != nil {
		logs.Errorf("get %s order book %s, err: %+v", v.Exchange(), symbol, err)
		writeError(w, http.StatusBadGateway, "upstream order book failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, OrderBookResponse{
		Exchange:  book.Exchange.String(),
		Symbol:    book.Symbol,
		Timestamp: book.Time.UnixMilli(),
		Bids:      levels(book.Bids),
		Asks:      levels(book.Asks),
	})
}

// venue resolves the exchange parameter, defaulting to Binance. It writes a 400 on failure.
func (h *Handler) venue(w http.ResponseWriter, name string) (venue.Venue, bool) {
	exchange := enum.ExchangeBinance
	if len(strings.TrimSpace(name)) != 0 {
		e, ok := enum.ParseExchange(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown exchange: "+name)
			return nil, false
		}
		exchange = e
	}

	v, err := h.venues.Get(exchange)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported exchange: "+name)
		return nil, false
	}

	return v, true
}

func levels(rows []adapter.DepthRow) []LevelResponse {
	res := make([]LevelResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, LevelResponse{Price: row.Price.String(), Quantity: row.Quantity.String()})
	}
	return res
}

func symbolParam(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) == 0 {
		return defaultSymbol
	}
	return s
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 0 || strings.EqualFold(s, "all")
}

func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NewNullDecimal(d), nil
}

// parseInt returns def for an empty value and caps the result at upper when upper > 0.
func parseInt(s string, def, upper int) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return def, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	if upper > 0 && n > upper {
		n = upper
	}

	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		logs.Errorf("marshal response, err: %+v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: http.StatusText(status), Message: message})
}
