package registry

import (
	"marketscan/internal/adapter/enum"
)

// Route tells where the deals of an (exchange, market) pair are stored.
type Route struct {
	Code      int
	Db        string
	DealTable string
}

type RouteKey struct {
	Exchange enum.Exchange
	Market   enum.MarketType
}

type Routes map[RouteKey]Route

// DefaultRoutes covers Binance spot and futures.
func DefaultRoutes() Routes {
	return Routes{
		{enum.ExchangeBinance, enum.MarketSpot}:    {Code: 2, Db: "binance", DealTable: "binance_spot_deals"},
		{enum.ExchangeBinance, enum.MarketFutures}: {Code: 2, Db: "", DealTable: "binance_futures_deals"},
	}
}
