package report

import (
	"context"
	"strconv"
	"strings"

	"marketscan/pkg/exception"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"
)

// Table is one table carrying a Moment column.
type Table struct {
	Database string `gorm:"column:database"`
	Name     string `gorm:"column:table"`
}

// Source answers freshness questions about a warehouse.
type Source interface {
	MomentTables(ctx context.Context) ([]Table, error)
	CountSince(ctx context.Context, t Table, hours int) (int64, error)
}

const _momentTablesQuery = "SELECT database, table FROM system.columns " +
	"WHERE name = 'Moment' AND database NOT IN ('system', 'information_schema', 'INFORMATION_SCHEMA') " +
	"ORDER BY database, table"

// ClickHouse is a Source over a gorm ClickHouse connection.
type ClickHouse struct {
	db *gorm.DB
}

func NewClickHouse(db *gorm.DB) (*ClickHouse, error) {
	if db == nil {
		return nil, exception.ErrStoreNilDB
	}

	return &ClickHouse{db: db}, nil
}

func (c *ClickHouse) MomentTables(ctx context.Context) ([]Table, error) {
	var tables []Table
	if err := c.db.WithContext(ctx).Raw(_momentTablesQuery).Scan(&tables).Error; err != nil {
		return nil, errors.Wrap(err, "find moment tables")
	}

	return tables, nil
}

func (c *ClickHouse) CountSince(ctx context.Context, t Table, hours int) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Raw(countQuery(t, hours)).Scan(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count rows").With("table", t.Database+"."+t.Name)
	}

	return count, nil
}

func countQuery(t Table, hours int) string {
	return "SELECT count() FROM " + quoteIdent(t.Database) + "." + quoteIdent(t.Name) +
		" WHERE Moment >= now() - INTERVAL " + strconv.Itoa(hours) + " HOUR"
}

func quoteIdent(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "`", "\\`")
	return "`" + s + "`"
}
