package registry

import "time"

// Symbol is one row of the Symbols table, keyed by (mExchange, mType, Name).
type Symbol struct {
	ID                    int64     `gorm:"column:mID;primaryKey;autoIncrement"`
	Name                  string    `gorm:"column:Name;size:64;uniqueIndex:idx_symbols_key,priority:3"`
	StatusTrading         int       `gorm:"column:mStatusTrading"`
	TradingAllowedSpot    int       `gorm:"column:key_Trading_Allowed_Spot"`
	TradingAllowedFutures int       `gorm:"column:key_Trading_Allowed_Futures"`
	Db                    string    `gorm:"column:mDb"`
	DbSpot                string    `gorm:"column:mDbSpot"`
	DbFutures             string    `gorm:"column:mDbFutures"`
	Exchange              int       `gorm:"column:mExchange;uniqueIndex:idx_symbols_key,priority:1"`
	ExchangeStr           string    `gorm:"column:mExchangeStr"`
	Type                  string    `gorm:"column:mType;size:16;uniqueIndex:idx_symbols_key,priority:2"`
	Trades24hCount        int64     `gorm:"column:mTrades24hCount"`
	Save                  int       `gorm:"column:key_Save"`
	LastTime              time.Time `gorm:"column:mLastTime"`
}

func (Symbol) TableName() string {
	return "Symbols"
}
