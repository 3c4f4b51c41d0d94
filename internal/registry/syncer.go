package registry

import (
	"context"
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gorm.io/gorm"
)

type Syncer struct {
	db     *gorm.DB
	routes Routes
	now    func() time.Time
}

// Result counts the rows touched by one Sync.
type Result struct {
	Updated  int
	Inserted int
	Failed   int
}

func NewSyncer(db *gorm.DB, routes Routes) (*Syncer, error) {
	if db == nil {
		return nil, exception.ErrStoreNilDB
	}
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}

	return &Syncer{db: db, routes: routes, now: time.Now}, nil
}

// Migrate creates the Symbols table when it does not exist.
func (s *Syncer) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Symbol{}); err != nil {
		return errors.Wrap(err, "migrate symbols")
	}

	return nil
}

// Sync upserts one row per ticker. Spot counts are reset first so delisted symbols drop to zero.
func (s *Syncer) Sync(ctx context.Context, exchange enum.Exchange, market enum.MarketType, tickers []adapter.Ticker) (Result, error) {
	if market != enum.MarketSpot && market != enum.MarketFutures {
		return Result{}, errors.Wrapf(exception.ErrRegistryUnsupportedMarket, "market: %s", market)
	}

	route, ok := s.routes[RouteKey{Exchange: exchange, Market: market}]
	if !ok {
		return Result{}, errors.Wrapf(exception.ErrRegistryNoRoute, "%s %s", exchange, market)
	}

	db := s.db.WithContext(ctx)
	typ := market.Title()

	if market == enum.MarketSpot {
		err := db.Model(&Symbol{}).
			Where("mExchange = ? AND mType = ?", route.Code, typ).
			Update("mTrades24hCount", 0).Error
		if err != nil {
			return Result{}, errors.Wrap(err, "reset trades count").With("exchange", exchange.String())
		}
	}

	var result Result
	for _, t := range tickers {
		inserted, err := s.upsert(db, route, exchange, market, t)
		if err != nil {
			logs.Errorf("upsert symbol %s, err: %+v", t.Symbol, err)
			result.Failed++
			continue
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	logs.Infof("sync symbols %s %s, updated: %d, inserted: %d, failed: %d",
		exchange, typ, result.Updated, result.Inserted, result.Failed)

	return result, nil
}

func (s *Syncer) upsert(db *gorm.DB, route Route, exchange enum.Exchange, market enum.MarketType, t adapter.Ticker) (bool, error) {
	typ := market.Title()
	count := t.TradeCount()
	now := s.now()

	var found []Symbol
	err := db.Where("Name = ? AND mExchange = ? AND mType = ?", t.Symbol, route.Code, typ).
		Limit(1).
		Find(&found).Error
	if err != nil {
		return false, errors.Wrap(err, "select symbol")
	}

	if len(found) != 0 {
		updates := map[string]any{
			"mTrades24hCount": count,
			"mLastTime":       now,
			"mExchangeStr":    exchange.String(),
			"mType":           typ,
			"mDb":             route.Db,
		}
		if market == enum.MarketSpot {
			updates["mDbSpot"] = route.DealTable
		} else {
			updates["mDbFutures"] = route.DealTable
		}

		err := db.Model(&Symbol{}).Where("mID = ?", found[0].ID).Updates(updates).Error
		if err != nil {
			return false, errors.Wrap(err, "update symbol").With("mID", found[0].ID)
		}
		return false, nil
	}

	row := Symbol{
		Name:           t.Symbol,
		StatusTrading:  1,
		Db:             route.Db,
		Exchange:       route.Code,
		ExchangeStr:    exchange.String(),
		Type:           typ,
		Trades24hCount: count,
		Save:           0,
		LastTime:       now,
	}
	if market == enum.MarketSpot {
		row.TradingAllowedSpot = 1
		row.DbSpot = route.DealTable
	} else {
		row.TradingAllowedFutures = 1
		row.DbFutures = route.DealTable
	}

	if err := db.Create(&row).Error; err != nil {
		return false, errors.Wrap(err, "insert symbol")
	}

	return true, nil
}
