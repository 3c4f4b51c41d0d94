package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"marketscan/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

// Fields is one decoded JSON object of a venue payload. Numbers are kept as json.Number.
type Fields map[string]any

// IsSet reports whether value is present, not null, not an empty string and not numerically zero.
func IsSet(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		s := strings.TrimSpace(v)
		if len(s) == 0 {
			return false
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return !d.IsZero()
		}
		return true
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return !d.IsZero()
		}
		return len(v) != 0
	case float64:
		return v != 0
	case int64:
		return v != 0
	case int:
		return v != 0
	case bool:
		return v
	default:
		return true
	}
}

func (f Fields) first(keys []string) (any, string, bool) {
	for _, key := range keys {
		if v, ok := f[key]; ok && IsSet(v) {
			return v, key, true
		}
	}

	return nil, "", false
}

// Text returns the first SET key as text, or "" when none is SET.
func (f Fields) Text(keys ...string) string {
	v, _, ok := f.first(keys)
	if !ok {
		return ""
	}

	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Decimal returns the first SET key parsed as a decimal, or zero when none is SET.
func (f Fields) Decimal(keys ...string) (decimal.Decimal, error) {
	v, key, ok := f.first(keys)
	if !ok {
		return decimal.Zero, nil
	}

	d, err := ParseDecimal(v)
	if err != nil {
		return decimal.Zero, errors.Wrapf(exception.ErrNormalizeInvalidDecimal, "field %s: %v", key, v)
	}

	return d, nil
}

// NullDecimal is like Decimal but reports whether any key was SET.
func (f Fields) NullDecimal(keys ...string) (decimal.NullDecimal, error) {
	if _, _, ok := f.first(keys); !ok {
		return decimal.NullDecimal{}, nil
	}

	d, err := f.Decimal(keys...)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// ParseDecimal converts a decoded JSON scalar into a decimal.
func ParseDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(t))
	case json.Number:
		return decimal.NewFromString(t.String())
	case float64:
		return decimal.NewFromFloat(t), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	default:
		return decimal.Zero, errors.Wrapf(exception.ErrNormalizeInvalidDecimal, "type %T", v)
	}
}

// ParseInt converts a decoded JSON scalar holding an integer, such as a millisecond timestamp.
func ParseInt(v any) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		return t.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	case float64:
		return int64(t), nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	default:
		return 0, errors.Errorf("unexpected integer type %T", v)
	}
}
