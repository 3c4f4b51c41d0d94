package store

import (
	"strings"

	"marketscan/internal/adapter/enum"
	"marketscan/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

// Filter selects stored rows. Empty fields and "all" match everything.
type Filter struct {
	Exchange  string
	Market    string
	MinPrice  decimal.NullDecimal
	MinVolume decimal.NullDecimal
	Search    string
	Limit     int
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 0 || strings.EqualFold(s, "all")
}

// exchangeNames returns the lower case spellings stored for the filtered exchange.
func (f Filter) exchangeNames() ([]string, error) {
	if isAll(f.Exchange) {
		return nil, nil
	}

	e, ok := enum.ParseExchange(f.Exchange)
	if !ok {
		return nil, errors.Wrapf(exception.ErrInvalidArgument, "exchange: %s", f.Exchange)
	}

	if e == enum.ExchangeOKX {
		return []string{"okx", "okex"}, nil
	}

	return []string{strings.ToLower(e.String())}, nil
}

func (f Filter) market() (string, error) {
	if isAll(f.Market) {
		return "", nil
	}

	m, ok := enum.ParseMarketType(f.Market)
	if !ok {
		return "", errors.Wrapf(exception.ErrInvalidArgument, "market: %s", f.Market)
	}

	return m.String(), nil
}

func (f Filter) match(r Record) bool {
	if f.MinPrice.Valid && r.lastPrice().LessThan(f.MinPrice.Decimal) {
		return false
	}

	if f.MinVolume.Valid && r.volume().LessThan(f.MinVolume.Decimal) {
		return false
	}

	return true
}
