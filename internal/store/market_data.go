package store

import (
	"context"
	"strings"

	"marketscan/internal/adapter"
	"marketscan/pkg/exception"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"
)

const _insertBatchSize = 500

// MarketData is the append-only ticker table.
type MarketData struct {
	db *gorm.DB
}

func NewMarketData(db *gorm.DB) (*MarketData, error) {
	if db == nil {
		return nil, exception.ErrStoreNilDB
	}

	return &MarketData{db: db}, nil
}

func (m *MarketData) Migrate(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return errors.Wrap(err, "migrate market_data")
	}

	return nil
}

// Insert appends tickers in one transaction and returns the number of rows written.
func (m *MarketData) Insert(ctx context.Context, tickers []adapter.Ticker) (int, error) {
	if len(tickers) == 0 {
		return 0, nil
	}

	records := make([]Record, 0, len(tickers))
	for _, t := range tickers {
		records = append(records, NewRecord(t))
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, _insertBatchSize).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert market_data").With("rows", len(records))
	}

	return len(records), nil
}

// Query returns the newest rows first. Price and volume are compared as decimals after loading.
func (m *MarketData) Query(ctx context.Context, f Filter) ([]Record, error) {
	exchanges, err := f.exchangeNames()
	if err != nil {
		return nil, err
	}

	market, err := f.market()
	if err != nil {
		return nil, err
	}

	tx := m.db.WithContext(ctx).Model(&Record{})
	if len(exchanges) != 0 {
		tx = tx.Where("LOWER(exchange) IN ?", exchanges)
	}
	if len(market) != 0 {
		tx = tx.Where("market_type = ?", market)
	}
	if search := strings.TrimSpace(f.Search); len(search) != 0 {
		tx = tx.Where("LOWER(symbol) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var rows []Record
	if err := tx.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query market_data")
	}

	result := rows[:0]
	for _, r := range rows {
		if !f.match(r) {
			continue
		}
		result = append(result, r)
		if f.Limit > 0 && len(result) == f.Limit {
			break
		}
	}

	return result, nil
}
