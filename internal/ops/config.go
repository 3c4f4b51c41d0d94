package ops

import (
	"os"
	"strconv"
	"strings"
	"time"

	"marketscan/internal/adapter/enum"
	"marketscan/internal/pipeline"
	"marketscan/internal/registry"
	"marketscan/internal/venue"
	"marketscan/internal/venue/binance"
	"marketscan/internal/venue/bybit"
	"marketscan/internal/venue/okx"
	"marketscan/pkg/conn"
	"marketscan/pkg/exception"
	"marketscan/pkg/rest"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Store    DBConfig       `json:"store"`
	Registry RegistryConfig `json:"registry"`
	Report   ReportConfig   `json:"report"`
	HTTP     HTTPConfig     `json:"http"`
	Cache    CacheConfig    `json:"cache"`
	Venues   VenuesConfig   `json:"venues"`
	Collect  CollectConfig  `json:"collect"`
	API      APIConfig      `json:"api"`
}

// DBConfig describes one database connection.
type DBConfig struct {
	Driver     string            `json:"driver"`
	Host       string            `json:"host"`
	Port       int               `json:"port"`
	User       string            `json:"user"`
	Password   string            `json:"password"`
	Database   string            `json:"database"`
	SSLMode    string            `json:"sslMode"`
	Params     map[string]string `json:"params"`
	ConnString string            `json:"connString"`
}

// RegistryConfig describes the symbol registry database and its routing.
type RegistryConfig struct {
	DB     DBConfig      `json:"db"`
	Routes []RouteConfig `json:"routes"`
}

// RouteConfig maps an exchange and market onto registry columns.
type RouteConfig struct {
	Exchange  string `json:"exchange"`
	Market    string `json:"market"`
	Code      int    `json:"code"`
	Db        string `json:"db"`
	DealTable string `json:"dealTable"`
}

type ReportConfig struct {
	DB    DBConfig `json:"db"`
	Hours int      `json:"hours"`
	Out   string   `json:"out"`
}

type HTTPConfig struct {
	TimeoutMs     int     `json:"timeoutMs"`
	RatePerSecond float64 `json:"ratePerSecond"`
	Burst         int     `json:"burst"`
	Proxy         string  `json:"proxy"`
	UserAgent     string  `json:"userAgent"`
}

// CacheConfig selects the response cache backend: none, file or redis.
type CacheConfig struct {
	Backend    string      `json:"backend"`
	Dir        string      `json:"dir"`
	TTLSeconds int         `json:"ttlSeconds"`
	Redis      RedisConfig `json:"redis"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

type VenuesConfig struct {
	Binance struct {
		SpotURL    string `json:"spotUrl"`
		FuturesURL string `json:"futuresUrl"`
		OptionsURL string `json:"optionsUrl"`
	} `json:"binance"`
	Bybit struct {
		BaseURL         string   `json:"baseUrl"`
		OptionBaseCoins []string `json:"optionBaseCoins"`
	} `json:"bybit"`
	OKX struct {
		BaseURL           string   `json:"baseUrl"`
		OptionUnderlyings []string `json:"optionUnderlyings"`
	} `json:"okx"`
}

type CollectConfig struct {
	Jobs            string `json:"jobs"`
	IntervalSeconds int    `json:"intervalSeconds"`
}

type APIConfig struct {
	Addr string `json:"addr"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Store    conn.Option
	Registry RegistrySpec
	Report   ReportSpec
	HTTP     rest.Option
	Cache    CacheSpec
	Venues   venue.Config
	Collect  CollectSpec
	API      APISpec
}

type RegistrySpec struct {
	DB     conn.Option
	Routes registry.Routes
}

type ReportSpec struct {
	DB    conn.Option
	Hours int
	Out   string
}

type CacheSpec struct {
	Backend string
	Dir     string
	TTL     time.Duration
	Redis   RedisConfig
}

type CollectSpec struct {
	Jobs     []pipeline.Job
	Interval time.Duration
}

type APISpec struct {
	Addr string
}

const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Load reads a JSON config file, applies environment overrides and resolves defaults.
// An empty path starts from an empty file config.
func Load(path string) (Loaded, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Loaded, error) {
	var cfg FileConfig
	if len(path) != 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, errors.Wrap(err, "read config").With("path", path)
		}
		if err := sonic.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, errors.Wrap(err, "decode config").With("path", path)
		}
	}

	applyEnv(&cfg, getenv)
	return resolve(cfg)
}

func applyEnv(cfg *FileConfig, getenv func(string) string) {
	if v := getenv("MARKETSCAN_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := getenv("MARKETSCAN_STORE_DSN"); v != "" {
		cfg.Store.ConnString = v
	}
	if v := getenv("MARKETSCAN_STORE_DATABASE"); v != "" {
		cfg.Store.Database = v
	}
	if v := getenv("MARKETSCAN_PROXY"); v != "" {
		cfg.HTTP.Proxy = v
	}
	if v := getenv("MARKETSCAN_CACHE"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := getenv("MARKETSCAN_JOBS"); v != "" {
		cfg.Collect.Jobs = v
	}
	if v := getenv("MARKETSCAN_API_ADDR"); v != "" {
		cfg.API.Addr = v
	}

	// The registry lives in SQL Server.
	if v := getenv("MSSQL_CONNECTION_STRING"); v != "" {
		cfg.Registry.DB.Driver = string(conn.DriverSQLServer)
		cfg.Registry.DB.ConnString = v
	}

	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		cfg.Report.DB.Host = v
	}
	if v := getenv("CLICKHOUSE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Report.DB.Port = p
		}
	}
	if v := getenv("CLICKHOUSE_USER"); v != "" {
		cfg.Report.DB.User = v
	}
	if v := getenv("CLICKHOUSE_PASSWORD"); v != "" {
		cfg.Report.DB.Password = v
	}
	if v := getenv("CLICKHOUSE_DATABASE"); v != "" {
		cfg.Report.DB.Database = v
	}

	if v := getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	} else if host := getenv("REDIS_HOST"); host != "" {
		port := getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.Cache.Redis.Addr = host + ":" + port
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		cfg.Cache.Redis.DB, _ = strconv.Atoi(v)
	}
}

func resolve(cfg FileConfig) (Loaded, error) {
	store, err := resolveDB(cfg.Store, conn.DriverSQLite)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "resolve store")
	}

	registryDB, err := resolveDB(cfg.Registry.DB, conn.DriverSQLServer)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "resolve registry db")
	}

	routes, err := resolveRoutes(cfg.Registry.Routes)
	if err != nil {
		return Loaded{}, err
	}

	reportDB, err := resolveDB(cfg.Report.DB, conn.DriverClickHouse)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "resolve report db")
	}

	cache, err := resolveCache(cfg.Cache)
	if err != nil {
		return Loaded{}, err
	}

	jobs, err := pipeline.ParseJobs(cfg.Collect.Jobs)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "resolve collect jobs")
	}

	report := ReportSpec{DB: reportDB, Hours: cfg.Report.Hours, Out: cfg.Report.Out}
	if report.Hours <= 0 {
		report.Hours = 5
	}
	if report.Out == "" {
		report.Out = "clickhouse_report.html"
	}

	api := APISpec{Addr: cfg.API.Addr}
	if api.Addr == "" {
		api.Addr = ":8050"
	}

	return Loaded{
		Store:    store,
		Registry: RegistrySpec{DB: registryDB, Routes: routes},
		Report:   report,
		HTTP: rest.Option{
			Timeout:       time.Duration(cfg.HTTP.TimeoutMs) * time.Millisecond,
			RatePerSecond: cfg.HTTP.RatePerSecond,
			Burst:         cfg.HTTP.Burst,
			Proxy:         cfg.HTTP.Proxy,
			UserAgent:     cfg.HTTP.UserAgent,
		},
		Cache: cache,
		Venues: venue.Config{
			Binance: binance.Config{
				SpotURL:    cfg.Venues.Binance.SpotURL,
				FuturesURL: cfg.Venues.Binance.FuturesURL,
				OptionsURL: cfg.Venues.Binance.OptionsURL,
			},
			Bybit: bybit.Config{
				BaseURL:         cfg.Venues.Bybit.BaseURL,
				OptionBaseCoins: cfg.Venues.Bybit.OptionBaseCoins,
			},
			OKX: okx.Config{
				BaseURL:           cfg.Venues.OKX.BaseURL,
				OptionUnderlyings: cfg.Venues.OKX.OptionUnderlyings,
			},
		},
		Collect: CollectSpec{
			Jobs:     jobs,
			Interval: time.Duration(cfg.Collect.IntervalSeconds) * time.Second,
		},
		API: api,
	}, nil
}

func resolveDB(cfg DBConfig, fallback conn.Driver) (conn.Option, error) {
	driver := fallback
	if len(cfg.Driver) != 0 {
		d, err := conn.ParseDriver(cfg.Driver)
		if err != nil {
			return conn.Option{}, err
		}
		driver = d
	}

	return conn.Option{
		Driver:     driver,
		Host:       cfg.Host,
		Port:       cfg.Port,
		User:       cfg.User,
		Password:   cfg.Password,
		Database:   cfg.Database,
		SSLMode:    cfg.SSLMode,
		Params:     cfg.Params,
		ConnString: cfg.ConnString,
		Silent:     true,
	}, nil
}

func resolveRoutes(cfgs []RouteConfig) (registry.Routes, error) {
	routes := registry.DefaultRoutes()
	for _, cfg := range cfgs {
		exchange, ok := enum.ParseExchange(cfg.Exchange)
		if !ok {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "route exchange: %s", cfg.Exchange)
		}

		market, ok := enum.ParseMarketType(cfg.Market)
		if !ok || market == enum.MarketOptions {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "route market: %s", cfg.Market)
		}

		routes[registry.RouteKey{Exchange: exchange, Market: market}] = registry.Route{
			Code:      cfg.Code,
			Db:        cfg.Db,
			DealTable: cfg.DealTable,
		}
	}

	return routes, nil
}

func resolveCache(cfg CacheConfig) (CacheSpec, error) {
	spec := CacheSpec{
		Backend: strings.ToLower(strings.TrimSpace(cfg.Backend)),
		Dir:     cfg.Dir,
		TTL:     time.Duration(cfg.TTLSeconds) * time.Second,
		Redis:   cfg.Redis,
	}

	switch spec.Backend {
	case "", CacheNone:
		spec.Backend = CacheNone
	case CacheFile, CacheRedis:
	default:
		return CacheSpec{}, errors.Wrapf(exception.ErrArgumentUnsupported, "cache backend: %s", cfg.Backend)
	}

	if spec.Dir == "" {
		spec.Dir = ".cache"
	}
	if spec.TTL <= 0 {
		spec.TTL = time.Hour
	}
	if spec.Redis.Addr == "" {
		spec.Redis.Addr = "localhost:6379"
	}
	if spec.Redis.Prefix == "" {
		spec.Redis.Prefix = "marketscan:"
	}

	return spec, nil
}
