package normalize

import (
	"strings"
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

const _expiryLayout = "2006-01-02"

// OptionParser extracts contract metadata from the symbol and payload of an options ticker.
type OptionParser func(symbol string, fields Fields) (*adapter.Option, error)

// binanceOption handles BTC-240628-60000-C. Strike and exercise price come from the payload.
func binanceOption(symbol string, fields Fields) (*adapter.Option, error) {
	opt := &adapter.Option{
		Type:       enum.OptionPut,
		ExpiryDate: adapter.ExpiryUnknown,
	}
	if strings.HasSuffix(symbol, "-C") {
		opt.Type = enum.OptionCall
	}

	if parts := strings.Split(symbol, "-"); len(parts) > 1 {
		expiry, err := parseExpiry(parts[1], "060102")
		if err != nil {
			return nil, errors.Wrap(err, "parse binance expiry").With("symbol", symbol)
		}
		opt.ExpiryDate = expiry
	}

	var err error
	if opt.StrikePrice, err = fields.Decimal("strikePrice"); err != nil {
		return nil, err
	}

	if opt.ExercisePrice, err = fields.Decimal("exercisePrice"); err != nil {
		return nil, err
	}

	return opt, nil
}

// bybitOption handles BTC-28JUN24-60000-C, optionally followed by a settle coin segment.
func bybitOption(symbol string, _ Fields) (*adapter.Option, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) != 4 && len(parts) != 5 {
		return nil, errors.Wrapf(exception.ErrNormalizeOptionSymbol, "bybit symbol: %s", symbol)
	}

	return contractOption(symbol, parts[1], "2Jan06", parts[2], parts[3])
}

// okxOption handles BTC-USD-240628-60000-C.
func okxOption(symbol string, _ Fields) (*adapter.Option, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) != 5 {
		return nil, errors.Wrapf(exception.ErrNormalizeOptionSymbol, "okx symbol: %s", symbol)
	}

	return contractOption(symbol, parts[2], "060102", parts[3], parts[4])
}

func contractOption(symbol, expirySegment, layout, strikeSegment, code string) (*adapter.Option, error) {
	expiry, err := parseExpiry(expirySegment, layout)
	if err != nil {
		return nil, errors.Wrap(err, "parse expiry").With("symbol", symbol)
	}

	strike, err := decimal.NewFromString(strikeSegment)
	if err != nil {
		return nil, errors.Wrapf(exception.ErrNormalizeInvalidDecimal, "strike segment: %s", strikeSegment)
	}

	return &adapter.Option{
		Type:          enum.OptionTypeFromCode(code),
		StrikePrice:   strike,
		ExercisePrice: strike,
		ExpiryDate:    expiry,
	}, nil
}

func parseExpiry(segment, layout string) (string, error) {
	t, err := time.Parse(layout, segment)
	if err != nil {
		return "", errors.Wrapf(exception.ErrNormalizeOptionExpiry, "segment: %s", segment)
	}

	return t.Format(_expiryLayout), nil
}
