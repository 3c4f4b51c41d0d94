package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketscan/internal/ops"
	"marketscan/internal/report"
	"marketscan/pkg/conn"
)

func main() {
	if err := run(); err != nil {
		log.Printf("report: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "config file path (optional)")
	hoursFlag := flag.Int("hours", 0, "count rows newer than this many hours, default from config")
	outFlag := flag.String("out", "", "output html path, default from config")
	flag.Parse()

	cfg, err := ops.Load(*configFlag)
	if err != nil {
		return err
	}

	hours := cfg.Report.Hours
	if *hoursFlag > 0 {
		hours = *hoursFlag
	}
	out := cfg.Report.Out
	if *outFlag != "" {
		out = *outFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := conn.New(cfg.Report.DB)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	src, err := report.NewClickHouse(db.DB())
	if err != nil {
		return err
	}

	r, err := report.Build(ctx, src, hours, time.Now())
	if err != nil {
		return err
	}
	if err := report.WriteFile(out, r); err != nil {
		return err
	}

	log.Printf("report written: %s, tables: %d", out, len(r.Rows))
	return nil
}
