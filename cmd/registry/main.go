package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/internal/normalize"
	"marketscan/internal/ops"
	"marketscan/internal/registry"
	"marketscan/internal/venue"
	"marketscan/pkg/conn"
)

func main() {
	if err := run(); err != nil {
		log.Printf("registry: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "config file path (optional)")
	marketFlag := flag.String("market", "spot", "market to sync: spot or futures")
	exchangeFlag := flag.String("exchange", "binance", "exchange to sync")
	cacheTTLFlag := flag.Duration("cache-ttl", time.Hour, "ticker response cache ttl")
	flag.Parse()

	market, ok := enum.ParseMarketType(*marketFlag)
	if !ok || market == enum.MarketOptions {
		return fmt.Errorf("invalid market %q; use spot or futures", *marketFlag)
	}
	exchange, ok := enum.ParseExchange(*exchangeFlag)
	if !ok {
		return fmt.Errorf("invalid exchange %q", *exchangeFlag)
	}

	cfg, err := ops.Load(*configFlag)
	if err != nil {
		return err
	}
	if cfg.Cache.Backend == ops.CacheNone {
		cfg.Cache.Backend = ops.CacheFile
	}
	if *cacheTTLFlag > 0 {
		cfg.Cache.TTL = *cacheTTLFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, closeCache, err := ops.NewRESTClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeCache()
	}()

	db, err := conn.New(cfg.Registry.DB)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	syncer, err := registry.NewSyncer(db.DB(), cfg.Registry.Routes)
	if err != nil {
		return err
	}
	if err := syncer.Migrate(ctx); err != nil {
		return err
	}

	items, err := venue.NewSet(client, cfg.Venues).Tickers(ctx, exchange, market)
	if err != nil {
		return err
	}

	now := time.Now()
	tickers := make([]adapter.Ticker, 0, len(items))
	for _, item := range items {
		t, err := normalize.Normalize(exchange, market, item, now)
		if err != nil {
			log.Printf("skip item: %v", err)
			continue
		}
		tickers = append(tickers, t)
	}

	res, err := syncer.Sync(ctx, exchange, market, tickers)
	if err != nil {
		return err
	}

	log.Printf("%s %s symbols: %d, updated: %d, inserted: %d, failed: %d",
		exchange, market.Title(), len(tickers), res.Updated, res.Inserted, res.Failed)
	return nil
}
