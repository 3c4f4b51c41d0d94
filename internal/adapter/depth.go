package adapter

import (
	"strconv"
	"time"

	"marketscan/internal/adapter/enum"

	"github.com/shopspring/decimal"
)

// OrderBook is an order book snapshot, bids descending and asks ascending as sent by the venue.
type OrderBook struct {
	Symbol   string
	Exchange enum.Exchange
	Time     time.Time
	Bids     []DepthRow
	Asks     []DepthRow
}

type DepthRow struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// NewDepthRows parses [price, quantity, ...] string levels. Extra columns are ignored.
func NewDepthRows(levels [][]string) ([]DepthRow, error) {
	rows := make([]DepthRow, 0, len(levels))
	for _, level := range levels {
		if len(level) < 2 {
			continue
		}

		price, err := decimal.NewFromString(level[0])
		if err != nil {
			return nil, err
		}

		quantity, err := decimal.NewFromString(level[1])
		if err != nil {
			return nil, err
		}

		rows = append(rows, DepthRow{Price: price, Quantity: quantity})
	}

	return rows, nil
}

// Debug returns a human readable format string
func (d OrderBook) Debug() string {
	appendDepthSide := func(buf []byte, rows []DepthRow) []byte {
		buf = append(buf, '[')
		for i := range rows {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, '(')
			buf = append(buf, rows[i].Price.String()...)
			buf = append(buf, ',')
			buf = append(buf, rows[i].Quantity.String()...)
			buf = append(buf, ')')
		}
		buf = append(buf, ']')
		return buf
	}

	buf := make([]byte, 0, 256)
	buf = append(buf, "OrderBook{symbol="...)
	buf = append(buf, d.Symbol...)
	buf = append(buf, " exchange="...)
	buf = append(buf, d.Exchange.String()...)
	buf = append(buf, " ts="...)
	buf = strconv.AppendInt(buf, d.Time.UnixMilli(), 10)
	buf = append(buf, " bids="...)
	buf = appendDepthSide(buf, d.Bids)
	buf = append(buf, " asks="...)
	buf = appendDepthSide(buf, d.Asks)
	buf = append(buf, '}')
	return string(buf)
}
