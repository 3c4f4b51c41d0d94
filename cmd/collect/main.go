package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"marketscan/internal/obs"
	"marketscan/internal/ops"
	"marketscan/internal/pipeline"
	"marketscan/internal/store"
	"marketscan/internal/venue"
	"marketscan/pkg/conn"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/errors"
)

var errAllJobsFailed = errors.New("all jobs failed")

func main() {
	if err := run(); err != nil {
		log.Printf("collect: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "config file path (optional)")
	jobsFlag := flag.String("jobs", "", "comma separated exchange:market jobs, default all")
	intervalFlag := flag.Duration("interval", -1, "collect interval, 0 runs once")
	pyroscopeFlag := flag.String("pyroscope", "", "pyroscope server address (optional)")
	flag.Parse()

	cfg, err := ops.Load(*configFlag)
	if err != nil {
		return err
	}

	jobs := cfg.Collect.Jobs
	if s := strings.TrimSpace(*jobsFlag); s != "" {
		if jobs, err = pipeline.ParseJobs(s); err != nil {
			return err
		}
	}
	interval := cfg.Collect.Interval
	if *intervalFlag >= 0 {
		interval = *intervalFlag
	}

	if addr := strings.TrimSpace(*pyroscopeFlag); addr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "marketscan/collect",
			ServerAddress:   addr,
			Tags: map[string]string{
				"env": "local",
			},
			Logger: emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
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

	metrics := obs.NewMetrics()
	collector := pipeline.NewCollector(venue.NewSet(client, cfg.Venues), md, metrics)

	log.Printf("collect %d jobs into %s, interval: %s", len(jobs), db.Driver(), interval)

	if interval == 0 {
		failed := 0
		for _, res := range collector.Run(ctx, jobs) {
			if res.Err != nil {
				failed++
			}
		}
		logSnapshot(metrics.Snapshot())
		if failed == len(jobs) && failed != 0 {
			return errAllJobsFailed
		}
		return nil
	}

	err = collector.Loop(ctx, jobs, interval)
	logSnapshot(metrics.Snapshot())
	return err
}

func logSnapshot(s obs.Snapshot) {
	for key, job := range s.Jobs {
		log.Printf("%s:%s runs: %d, failures: %d, fetched: %d, stored: %d, skipped: %d",
			key.Exchange, key.Market, job.Runs, job.Failures, job.Fetched, job.Stored, job.Skipped)
	}
	log.Printf("fetch avg: %s, max: %s, store avg: %s, max: %s, job avg: %s",
		s.FetchLatency.Avg, s.FetchLatency.Max,
		s.StoreLatency.Avg, s.StoreLatency.Max, s.JobLatency.Avg)
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
