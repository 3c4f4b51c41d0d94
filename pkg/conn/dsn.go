package conn

import (
	"fmt"
	"net/url"

	"marketscan/pkg/exception"

	"github.com/yanun0323/errors"
)

const (
	defaultHost            = "localhost"
	defaultPostgresPort    = 5432
	defaultPostgresSSLMode = "disable"
	defaultSQLServerPort   = 1433
	defaultClickHousePort  = 9000
	defaultSQLitePath      = "market_data.db"
)

func (opt Option) dsn() (string, error) {
	if opt.ConnString != "" {
		return opt.ConnString, nil
	}

	switch opt.Driver {
	case DriverPostgres:
		return opt.postgresDSN(), nil
	case DriverSQLite:
		if opt.Database != "" {
			return opt.Database, nil
		}
		return defaultSQLitePath, nil
	case DriverSQLServer:
		return opt.sqlServerDSN(), nil
	case DriverClickHouse:
		return opt.clickHouseDSN(), nil
	default:
		return "", errors.Wrapf(exception.ErrUnsupportedDriver, "driver: %s", opt.Driver)
	}
}

func (opt Option) baseURL(scheme string, defaultPort int) *url.URL {
	host := opt.Host
	if host == "" {
		host = defaultHost
	}

	port := opt.Port
	if port == 0 {
		port = defaultPort
	}

	u := &url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", host, port),
	}

	if opt.User != "" {
		if opt.Password != "" {
			u.User = url.UserPassword(opt.User, opt.Password)
		} else {
			u.User = url.User(opt.User)
		}
	}

	return u
}

func (opt Option) encodeParams(query url.Values) string {
	for key, value := range opt.Params {
		if key == "" {
			continue
		}
		query.Set(key, value)
	}
	return query.Encode()
}

func (opt Option) postgresDSN() string {
	u := opt.baseURL("postgres", defaultPostgresPort)
	if opt.Database != "" {
		u.Path = "/" + opt.Database
	}

	sslMode := opt.SSLMode
	if sslMode == "" {
		sslMode = defaultPostgresSSLMode
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	u.RawQuery = opt.encodeParams(query)

	return u.String()
}

func (opt Option) sqlServerDSN() string {
	u := opt.baseURL("sqlserver", defaultSQLServerPort)

	query := url.Values{}
	if opt.Database != "" {
		query.Set("database", opt.Database)
	}
	u.RawQuery = opt.encodeParams(query)

	return u.String()
}

func (opt Option) clickHouseDSN() string {
	u := opt.baseURL("clickhouse", defaultClickHousePort)
	if opt.Database != "" {
		u.Path = "/" + opt.Database
	}
	u.RawQuery = opt.encodeParams(url.Values{})

	return u.String()
}
