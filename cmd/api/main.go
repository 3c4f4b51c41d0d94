package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"marketscan/internal/api"
	"marketscan/internal/ops"
	"marketscan/internal/store"
	"marketscan/internal/venue"
	"marketscan/pkg/conn"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Printf("api: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "config file path (optional)")
	addrFlag := flag.String("addr", "", "listen address, default from config")
	flag.Parse()

	cfg, err := ops.Load(*configFlag)
	if err != nil {
		return err
	}
	addr := cfg.API.Addr
	if s := strings.TrimSpace(*addrFlag); s != "" {
		addr = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, _, err := ops.NewRESTClient(ctx, cfg.WithoutCache())
	if err != nil {
		return err
	}

	db, err := conn.New(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	md, err := store.NewMarketData(db.DB())
	if err != nil {
		return err
	}
	if err := md.Migrate(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()
	api.NewHandler(md, venue.NewSet(client, cfg.Venues)).Routes(mux)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("api listening: %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
