package enum

import "strings"

// Exchange binance, bybit, okx
type Exchange uint8

const (
	_exchange_beg Exchange = iota
	ExchangeBinance
	ExchangeBybit
	ExchangeOKX
	_exchange_end
)

func (e Exchange) IsAvailable() bool {
	return e > _exchange_beg && e < _exchange_end
}

func (e Exchange) String() string {
	switch e {
	case ExchangeBinance:
		return "Binance"
	case ExchangeBybit:
		return "Bybit"
	case ExchangeOKX:
		return "OKX"
	default:
		return ""
	}
}

// Exchanges returns every available exchange in declaration order.
func Exchanges() []Exchange {
	result := make([]Exchange, 0, int(_exchange_end)-1)
	for e := _exchange_beg + 1; e < _exchange_end; e++ {
		result = append(result, e)
	}
	return result
}

// ParseExchange is case-insensitive. "okex" is the former name of OKX.
func ParseExchange(s string) (Exchange, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binance":
		return ExchangeBinance, true
	case "bybit":
		return ExchangeBybit, true
	case "okx", "okex":
		return ExchangeOKX, true
	default:
		return _exchange_beg, false
	}
}
