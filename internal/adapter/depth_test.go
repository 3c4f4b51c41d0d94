package adapter

import (
	"testing"
	"time"

	"marketscan/internal/adapter/enum"
)

func TestNewDepthRows(t *testing.T) {
	rows, err := NewDepthRows([][]string{
		{"100.10", "1.5"},
		{"99", "2", "0", "4"},
		{"ignored"},
	})
	if err != nil {
		t.Fatalf("parse rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows length mismatch: got %d want 2", len(rows))
	}
	if rows[0].Price.String() != "100.1" || rows[0].Quantity.String() != "1.5" {
		t.Fatalf("row0 mismatch: %+v", rows[0])
	}
	if rows[1].Price.String() != "99" || rows[1].Quantity.String() != "2" {
		t.Fatalf("row1 mismatch: %+v", rows[1])
	}

	if _, err := NewDepthRows([][]string{{"abc", "1"}}); err == nil {
		t.Fatalf("invalid price should fail")
	}
}

func TestOrderBookDebug(t *testing.T) {
	rows, err := NewDepthRows([][]string{{"101", "5"}})
	if err != nil {
		t.Fatalf("parse rows: %v", err)
	}
	book := OrderBook{
		Symbol:   "BTCUSDT",
		Exchange: enum.ExchangeBinance,
		Time:     time.UnixMilli(1700000000123),
		Bids:     rows,
	}

	want := "OrderBook{symbol=BTCUSDT exchange=Binance ts=1700000000123 bids=[(101,5)] asks=[]}"
	if got := book.Debug(); got != want {
		t.Fatalf("debug mismatch:\n got %s\nwant %s", got, want)
	}
}
