package ops

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"marketscan/internal/adapter/enum"
	"marketscan/internal/registry"
	"marketscan/pkg/conn"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("", noEnv)
	require.NoError(t, err)

	assert.Equal(t, conn.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, conn.DriverSQLServer, cfg.Registry.DB.Driver)
	assert.Equal(t, conn.DriverClickHouse, cfg.Report.DB.Driver)
	assert.Equal(t, 5, cfg.Report.Hours)
	assert.Equal(t, "clickhouse_report.html", cfg.Report.Out)
	assert.Equal(t, ":8050", cfg.API.Addr)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Len(t, cfg.Collect.Jobs, 9)
	assert.Zero(t, cfg.Collect.Interval)

	route := cfg.Registry.Routes[registry.RouteKey{Exchange: enum.ExchangeBinance, Market: enum.MarketSpot}]
	assert.Equal(t, registry.Route{Code: 2, Db: "binance", DealTable: "binance_spot_deals"}, route)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
		"store": {"driver": "postgres", "host": "pg", "database": "market"},
		"registry": {"routes": [{"exchange": "bybit", "market": "spot", "code": 3, "db": "bybit", "dealTable": "bybit_spot_deals"}]},
		"http": {"timeoutMs": 2500, "ratePerSecond": 10, "burst": 2},
		"cache": {"backend": "file", "dir": "snapshots", "ttlSeconds": 60},
		"venues": {"bybit": {"optionBaseCoins": ["SOL"]}, "okx": {"baseUrl": "http://okx.local"}},
		"collect": {"jobs": "binance:spot,okx:futures", "intervalSeconds": 30},
		"api": {"addr": "127.0.0.1:9000"}
	}`)

	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, conn.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "pg", cfg.Store.Host)
	assert.Equal(t, "market", cfg.Store.Database)
	assert.Equal(t, 2500*time.Millisecond, cfg.HTTP.Timeout)
	assert.Equal(t, 10.0, cfg.HTTP.RatePerSecond)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, "snapshots", cfg.Cache.Dir)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"SOL"}, cfg.Venues.Bybit.OptionBaseCoins)
	assert.Equal(t, "http://okx.local", cfg.Venues.OKX.BaseURL)
	assert.Len(t, cfg.Collect.Jobs, 2)
	assert.Equal(t, 30*time.Second, cfg.Collect.Interval)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.Addr)

	route := cfg.Registry.Routes[registry.RouteKey{Exchange: enum.ExchangeBybit, Market: enum.MarketSpot}]
	assert.Equal(t, 3, route.Code)
	assert.Len(t, cfg.Registry.Routes, 3)
}

func TestLoadEnvOverrides(t *testing.T) {
	env := map[string]string{
		"MSSQL_CONNECTION_STRING": "sqlserver://sa:pw@mssql:1433?database=registry",
		"CLICKHOUSE_HOST":         "ch",
		"CLICKHOUSE_PORT":         "9440",
		"CLICKHOUSE_DATABASE":     "ticks",
		"REDIS_HOST":              "cache",
		"MARKETSCAN_CACHE":        "redis",
		"MARKETSCAN_STORE_DSN":    "market.db",
		"MARKETSCAN_JOBS":         "bybit:all",
	}

	cfg, err := load("", func(key string) string { return env[key] })
	require.NoError(t, err)

	assert.Equal(t, conn.DriverSQLServer, cfg.Registry.DB.Driver)
	assert.Equal(t, env["MSSQL_CONNECTION_STRING"], cfg.Registry.DB.ConnString)
	assert.Equal(t, "ch", cfg.Report.DB.Host)
	assert.Equal(t, 9440, cfg.Report.DB.Port)
	assert.Equal(t, "ticks", cfg.Report.DB.Database)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "market.db", cfg.Store.ConnString)
	assert.Len(t, cfg.Collect.Jobs, 3)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		desc string
		body string
	}{
		{"bad json", `{"store":`},
		{"bad driver", `{"store": {"driver": "oracle"}}`},
		{"bad cache", `{"cache": {"backend": "memcached"}}`},
		{"bad route market", `{"registry": {"routes": [{"exchange": "binance", "market": "options"}]}}`},
		{"bad route exchange", `{"registry": {"routes": [{"exchange": "kraken", "market": "spot"}]}}`},
		{"bad jobs", `{"collect": {"jobs": "binance"}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := load(writeConfig(t, tc.body), noEnv)
			require.Error(t, err)
		})
	}

	_, err := load(filepath.Join(t.TempDir(), "missing.json"), noEnv)
	require.Error(t, err)
}

func TestNewCache(t *testing.T) {
	c, closeFn, err := NewCache(t.Context(), CacheSpec{Backend: CacheNone})
	require.NoError(t, err)
	assert.Nil(t, c)
	require.NoError(t, closeFn())

	c, closeFn, err = NewCache(t.Context(), CacheSpec{Backend: CacheFile, Dir: t.TempDir(), TTL: time.Minute})
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	c, closeFn, err = NewCache(t.Context(), CacheSpec{Backend: CacheRedis, Redis: RedisConfig{Addr: mr.Addr()}})
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NoError(t, c.Set(t.Context(), "k", []byte("v"), time.Minute))
	require.NoError(t, closeFn())
}

func TestNewRESTClientWithoutCacheHitsUpstream(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"bids":[],"asks":[]}`))
	}))
	defer srv.Close()

	cfg, err := load("", noEnv)
	require.NoError(t, err)
	cfg.Cache = CacheSpec{Backend: CacheFile, Dir: t.TempDir(), TTL: time.Hour}

	cached, closeFn, err := NewRESTClient(t.Context(), cfg)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := cached.Get(t.Context(), srv.URL+"/depth", nil)
		require.NoError(t, err)
	}
	require.NoError(t, closeFn())
	assert.Equal(t, int32(1), hits.Load())

	live := cfg.WithoutCache()
	assert.Equal(t, CacheNone, live.Cache.Backend)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)

	client, closeFn, err := NewRESTClient(t.Context(), live)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := client.Get(t.Context(), srv.URL+"/depth", nil)
		require.NoError(t, err)
	}
	require.NoError(t, closeFn())
	assert.Equal(t, int32(3), hits.Load())
}
