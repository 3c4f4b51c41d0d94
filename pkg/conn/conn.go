package conn

import (
	"strings"

	"marketscan/pkg/exception"

	"github.com/glebarez/sqlite"
	"github.com/yanun0323/errors"
	"gorm.io/driver/clickhouse"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverPostgres   Driver = "postgres"
	DriverSQLite     Driver = "sqlite"
	DriverSQLServer  Driver = "sqlserver"
	DriverClickHouse Driver = "clickhouse"
)

// ParseDriver accepts the driver names plus the common aliases pg, mssql and ch.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "sqlite", "sqlite3", "":
		return DriverSQLite, nil
	case "sqlserver", "mssql":
		return DriverSQLServer, nil
	case "clickhouse", "ch":
		return DriverClickHouse, nil
	default:
		return "", errors.Wrapf(exception.ErrUnsupportedDriver, "driver: %s", s)
	}
}

// Option defines connection options for every supported driver.
type Option struct {
	Driver     Driver
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	Params     map[string]string
	ConnString string
	// Silent disables gorm's statement logger when Config is nil.
	Silent bool
	Config *gorm.Config
}

// Client wraps a gorm connection pool.
type Client struct {
	opt Option
	db  *gorm.DB
}

// New opens a connection for the configured driver.
func New(option Option) (*Client, error) {
	dialector, err := option.dialector()
	if err != nil {
		return nil, err
	}

	config := option.Config
	if config == nil {
		config = &gorm.Config{}
		if option.Silent {
			config.Logger = logger.Default.LogMode(logger.Silent)
		}
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, errors.Wrap(err, "open gorm").With("driver", option.Driver)
	}

	return &Client{opt: option, db: db}, nil
}

// DB returns the underlying gorm.DB instance.
func (c *Client) DB() *gorm.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// Driver returns the driver the client was opened with.
func (c *Client) Driver() Driver {
	if c == nil {
		return ""
	}
	return c.opt.Driver
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (opt Option) dialector() (gorm.Dialector, error) {
	dsn, err := opt.dsn()
	if err != nil {
		return nil, err
	}

	switch opt.Driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverSQLServer:
		return sqlserver.Open(dsn), nil
	case DriverClickHouse:
		return clickhouse.Open(dsn), nil
	default:
		return nil, errors.Wrapf(exception.ErrUnsupportedDriver, "driver: %s", opt.Driver)
	}
}
