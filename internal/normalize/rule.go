package normalize

import "marketscan/internal/adapter/enum"

// Rule lists the fallback key chains of one (exchange, market) payload shape.
// TradeVolume is the numerator of the derived trade count; empty means Volume.
type Rule struct {
	Symbol         []string
	Last           []string
	Volume         []string
	TradeVolume    []string
	High           []string
	Low            []string
	ReportedTrades []string
	Option         OptionParser
}

type ruleKey struct {
	exchange enum.Exchange
	market   enum.MarketType
}

var (
	_binanceLinear = Rule{
		Symbol:         []string{"symbol"},
		Last:           []string{"lastPrice"},
		Volume:         []string{"volume"},
		High:           []string{"highPrice"},
		Low:            []string{"lowPrice"},
		ReportedTrades: []string{"count"},
	}

	_bybitLinear = Rule{
		Symbol:      []string{"symbol"},
		Last:        []string{"lastPrice", "last"},
		Volume:      []string{"volume24h", "turnover24h", "vol24h"},
		TradeVolume: []string{"turnover24h", "vol24h"},
		High:        []string{"highPrice24h", "high24h"},
		Low:         []string{"lowPrice24h", "low24h"},
	}

	_rules = map[ruleKey]Rule{
		{enum.ExchangeBinance, enum.MarketSpot}:    _binanceLinear,
		{enum.ExchangeBinance, enum.MarketFutures}: _binanceLinear,
		{enum.ExchangeBinance, enum.MarketOptions}: {
			Symbol:         []string{"symbol"},
			Last:           []string{"lastPrice"},
			Volume:         []string{"volume"},
			High:           []string{"high"},
			Low:            []string{"low"},
			ReportedTrades: []string{"tradeCount"},
			Option:         binanceOption,
		},

		{enum.ExchangeBybit, enum.MarketSpot}:    _bybitLinear,
		{enum.ExchangeBybit, enum.MarketFutures}: _bybitLinear,
		{enum.ExchangeBybit, enum.MarketOptions}: {
			Symbol: []string{"symbol"},
			Last:   []string{"lastPrice"},
			Volume: []string{"turnover24h"},
			High:   []string{"highPrice24h"},
			Low:    []string{"lowPrice24h"},
			Option: bybitOption,
		},

		{enum.ExchangeOKX, enum.MarketSpot}: {
			Symbol: []string{"instId"},
			Last:   []string{"last"},
			Volume: []string{"vol24h"},
			High:   []string{"high24h"},
			Low:    []string{"low24h"},
		},
		{enum.ExchangeOKX, enum.MarketFutures}: {
			Symbol:      []string{"instId"},
			Last:        []string{"last"},
			Volume:      []string{"vol24h"},
			TradeVolume: []string{"volCcy24h", "vol24h"},
			High:        []string{"high24h"},
			Low:         []string{"low24h"},
		},
		{enum.ExchangeOKX, enum.MarketOptions}: {
			Symbol: []string{"instId"},
			Last:   []string{"last"},
			Volume: []string{"volCcy24h"},
			High:   []string{"high24h"},
			Low:    []string{"low24h"},
			Option: okxOption,
		},
	}
)

// RuleFor returns the payload rule of an exchange and market.
func RuleFor(exchange enum.Exchange, market enum.MarketType) (Rule, bool) {
	r, ok := _rules[ruleKey{exchange: exchange, market: market}]
	return r, ok
}
