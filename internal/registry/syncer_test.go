package registry

import (
	"path/filepath"
	"testing"
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/pkg/conn"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var _syncTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSyncer(t *testing.T) (*Syncer, *gorm.DB) {
	t.Helper()

	c, err := conn.New(conn.Option{
		Driver:   conn.DriverSQLite,
		Database: filepath.Join(t.TempDir(), "registry.db"),
		Silent:   true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	s, err := NewSyncer(c.DB(), nil)
	require.NoError(t, err)
	s.now = func() time.Time { return _syncTime }
	require.NoError(t, s.Migrate(t.Context()))

	return s, c.DB()
}

func reported(symbol string, count int64) adapter.Ticker {
	return adapter.Ticker{
		Symbol:            symbol,
		ReportedTrades24h: decimal.NewNullDecimal(decimal.NewFromInt(count)),
	}
}

func loadSymbol(t *testing.T, db *gorm.DB, name, typ string) Symbol {
	t.Helper()

	var rows []Symbol
	require.NoError(t, db.Where("Name = ? AND mType = ?", name, typ).Find(&rows).Error)
	require.Len(t, rows, 1)
	return rows[0]
}

func TestSyncInsertsSpot(t *testing.T) {
	s, db := newTestSyncer(t)

	res, err := s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketSpot, []adapter.Ticker{
		reported("BTCUSDT", 1000),
		{Symbol: "ETHUSDT", Trades24h: decimal.NewFromInt(7)},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 2}, res)

	btc := loadSymbol(t, db, "BTCUSDT", "Spot")
	assert.Equal(t, int64(1000), btc.Trades24hCount)
	assert.Equal(t, 1, btc.StatusTrading)
	assert.Equal(t, 1, btc.TradingAllowedSpot)
	assert.Equal(t, 0, btc.TradingAllowedFutures)
	assert.Equal(t, 2, btc.Exchange)
	assert.Equal(t, "Binance", btc.ExchangeStr)
	assert.Equal(t, "binance", btc.Db)
	assert.Equal(t, "binance_spot_deals", btc.DbSpot)
	assert.Equal(t, 0, btc.Save)

	eth := loadSymbol(t, db, "ETHUSDT", "Spot")
	assert.Equal(t, int64(7), eth.Trades24hCount, "derived count is used when no count is reported")
}

func TestSyncUpdatesAndResetsSpot(t *testing.T) {
	s, db := newTestSyncer(t)

	_, err := s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketSpot, []adapter.Ticker{
		reported("BTCUSDT", 1000),
		reported("LUNAUSDT", 50),
	})
	require.NoError(t, err)

	res, err := s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketSpot, []adapter.Ticker{
		reported("BTCUSDT", 2500),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, res)

	assert.Equal(t, int64(2500), loadSymbol(t, db, "BTCUSDT", "Spot").Trades24hCount)
	assert.Equal(t, int64(0), loadSymbol(t, db, "LUNAUSDT", "Spot").Trades24hCount, "missing spot symbols are reset")

	var total int64
	require.NoError(t, db.Model(&Symbol{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestSyncFuturesKeepsCounts(t *testing.T) {
	s, db := newTestSyncer(t)

	_, err := s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketFutures, []adapter.Ticker{
		reported("BTCUSDT", 10),
		reported("ETHUSDT", 20),
	})
	require.NoError(t, err)

	res, err := s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketFutures, []adapter.Ticker{
		reported("BTCUSDT", 30),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, res)

	btc := loadSymbol(t, db, "BTCUSDT", "Futures")
	assert.Equal(t, int64(30), btc.Trades24hCount)
	assert.Equal(t, 0, btc.TradingAllowedSpot)
	assert.Equal(t, 1, btc.TradingAllowedFutures)
	assert.Equal(t, "", btc.Db)
	assert.Equal(t, "binance_futures_deals", btc.DbFutures)

	assert.Equal(t, int64(20), loadSymbol(t, db, "ETHUSDT", "Futures").Trades24hCount)
}

func TestSyncSpotAndFuturesAreSeparateRows(t *testing.T) {
	s, db := newTestSyncer(t)

	_, err := s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketSpot, []adapter.Ticker{reported("BTCUSDT", 1)})
	require.NoError(t, err)
	_, err = s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketFutures, []adapter.Ticker{reported("BTCUSDT", 2)})
	require.NoError(t, err)

	assert.Equal(t, int64(1), loadSymbol(t, db, "BTCUSDT", "Spot").Trades24hCount)
	assert.Equal(t, int64(2), loadSymbol(t, db, "BTCUSDT", "Futures").Trades24hCount)
}

func TestSyncRejects(t *testing.T) {
	s, _ := newTestSyncer(t)

	_, err := s.Sync(t.Context(), enum.ExchangeBinance, enum.MarketOptions, nil)
	require.Error(t, err)

	_, err = s.Sync(t.Context(), enum.ExchangeBybit, enum.MarketSpot, nil)
	require.Error(t, err)

	_, err = NewSyncer(nil, nil)
	require.Error(t, err)
}
