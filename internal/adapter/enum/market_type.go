package enum

import "strings"

// MarketType spot, futures, options
type MarketType uint8

const (
	_market_type_beg MarketType = iota
	MarketSpot
	MarketFutures
	MarketOptions
	_market_type_end
)

func (m MarketType) IsAvailable() bool {
	return m > _market_type_beg && m < _market_type_end
}

func (m MarketType) String() string {
	switch m {
	case MarketSpot:
		return "spot"
	case MarketFutures:
		return "futures"
	case MarketOptions:
		return "options"
	default:
		return ""
	}
}

// Title is the capitalized form used by the symbol registry.
func (m MarketType) Title() string {
	switch m {
	case MarketSpot:
		return "Spot"
	case MarketFutures:
		return "Futures"
	case MarketOptions:
		return "Options"
	default:
		return ""
	}
}

// MarketTypes returns every available market type in declaration order.
func MarketTypes() []MarketType {
	result := make([]MarketType, 0, int(_market_type_end)-1)
	for m := _market_type_beg + 1; m < _market_type_end; m++ {
		result = append(result, m)
	}
	return result
}

func ParseMarketType(s string) (MarketType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spot":
		return MarketSpot, true
	case "futures", "future":
		return MarketFutures, true
	case "options", "option":
		return MarketOptions, true
	default:
		return _market_type_beg, false
	}
}
