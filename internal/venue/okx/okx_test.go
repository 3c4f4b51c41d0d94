package okx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketscan/internal/adapter/enum"
	"marketscan/pkg/rest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOKX(t *testing.T, handler http.HandlerFunc) *OKX {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := rest.New(rest.Option{})
	require.NoError(t, err)

	return New(client, Config{BaseURL: srv.URL})
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestOKXCodeIsNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"code":"50011","msg":"Too Many Requests","data":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USDT","last":"50000"}]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := rest.New(rest.Option{Cache: &memoryCache{data: map[string][]byte{}}, CacheTTL: time.Hour})
	require.NoError(t, err)
	o := New(client, Config{BaseURL: srv.URL})

	_, err = o.Tickers(t.Context(), enum.MarketSpot)
	require.Error(t, err)

	items, err := o.Tickers(t.Context(), enum.MarketSpot)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = o.Tickers(t.Context(), enum.MarketSpot)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestOKXTickers(t *testing.T) {
	o := newTestOKX(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v5/market/tickers", r.URL.Path)
		q := r.URL.Query()
		switch q.Get("instType") {
		case "SPOT":
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USDT","last":"60000"},{"instId":"ETH-USDT","last":"3000"}]}`))
		case "FUTURES":
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USD-240628","last":"60100"}]}`))
		case "SWAP":
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USDT-SWAP","last":"60050"}]}`))
		case "OPTION":
			if q.Get("uly") == "ETH-USD" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"instId":"BTC-USD-240628-60000-C","last":"0.05"}]}`))
		}
	})

	spot, err := o.Tickers(t.Context(), enum.MarketSpot)
	require.NoError(t, err)
	assert.Len(t, spot, 2)

	futures, err := o.Tickers(t.Context(), enum.MarketFutures)
	require.NoError(t, err)
	require.Len(t, futures, 2)
	assert.Equal(t, "BTC-USDT-SWAP", futures[1].Text("instId"))

	options, err := o.Tickers(t.Context(), enum.MarketOptions)
	require.NoError(t, err)
	require.Len(t, options, 1)
}

func TestOKXCode(t *testing.T) {
	o := newTestOKX(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"51001","msg":"Instrument ID does not exist","data":[]}`))
	})

	_, err := o.Tickers(t.Context(), enum.MarketSpot)
	require.Error(t, err)

	_, err = o.Candles(t.Context(), "NOPE-USDT", 10)
	require.Error(t, err)
}

func TestOKXCandles(t *testing.T) {
	o := newTestOKX(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v5/market/candles", r.URL.Path)
		assert.Equal(t, "BTC-USDT", r.URL.Query().Get("instId"))
		assert.Equal(t, "1m", r.URL.Query().Get("bar"))
		_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[
			["1717243260000","67050.5","67200","67000","67150","8.1","543000","543000","1"],
			["1717243200000","67000.1","67100","66900","67050.5","12.3","825000","825000","1"]
		]}`))
	})

	candles, err := o.Candles(t.Context(), "BTCUSDT", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1717243200000), candles[0].OpenTime.UnixMilli())
	assert.Equal(t, "12.3", candles[0].Volume.String())
}

func TestOKXOrderBook(t *testing.T) {
	o := newTestOKX(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v5/market/books", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("sz"))
		_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"asks":[["41006.8","0.60038921","0","1"]],"bids":[["41006.3","0.30178218","0","2"]],"ts":"1629966436396"}]}`))
	})

	book, err := o.OrderBook(t.Context(), "BTC-USDT", 5)
	require.NoError(t, err)
	assert.Equal(t, "BTC-USDT", book.Symbol)
	assert.Equal(t, int64(1629966436396), book.Time.UnixMilli())
	assert.Equal(t, time.UTC, book.Time.Location())
	assert.Equal(t, "41006.3", book.Bids[0].Price.String())
	assert.Equal(t, "0.60038921", book.Asks[0].Quantity.String())
}

func TestInstID(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"BTCUSDT", "BTC-USDT"},
		{"ethusdc", "ETH-USDC"},
		{"BTC-USDT", "BTC-USDT"},
		{"USDT", "USDT"},
		{"ABC", "ABC"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, InstID(tc.input))
		})
	}
}
