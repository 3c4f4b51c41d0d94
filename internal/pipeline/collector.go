package pipeline

import (
	"context"
	"time"

	"marketscan/internal/adapter"
	"marketscan/internal/adapter/enum"
	"marketscan/internal/normalize"
	"marketscan/internal/obs"
	"marketscan/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
)

//go:generate mockgen -source=collector.go -destination=mock_pipeline_test.go -package=pipeline

// Fetcher returns the raw ticker objects of one exchange and market.
type Fetcher interface {
	Tickers(ctx context.Context, exchange enum.Exchange, market enum.MarketType) ([]normalize.Fields, error)
}

// Sink persists a batch of normalized tickers.
type Sink interface {
	Insert(ctx context.Context, tickers []adapter.Ticker) (int, error)
}

// Result is the outcome of one job.
type Result struct {
	Job     Job
	Fetched int
	Stored  int
	Skipped int
	Elapsed time.Duration
	Err     error
}

// Collector runs fetch, normalize and persist per job, one job at a time.
type Collector struct {
	fetcher Fetcher
	sink    Sink
	metrics *obs.Metrics
	runIDs  *obs.RunIDs
	now     func() time.Time
}

func NewCollector(fetcher Fetcher, sink Sink, metrics *obs.Metrics) *Collector {
	return &Collector{
		fetcher: fetcher,
		sink:    sink,
		metrics: metrics,
		runIDs:  obs.NewRunIDs(0),
		now:     time.Now,
	}
}

// Collect runs one job. Bad items are skipped; fetch and store errors fail the job.
func (c *Collector) Collect(ctx context.Context, job Job) (res Result) {
	res.Job = job
	start := c.now()
	defer func() {
		res.Elapsed = c.now().Sub(start)
		c.metrics.ObserveJob(job.Exchange, job.Market, res.Fetched, res.Stored, res.Skipped, res.Err != nil, res.Elapsed)
	}()

	items, err := c.fetcher.Tickers(ctx, job.Exchange, job.Market)
	c.metrics.ObserveFetch(c.now().Sub(start))
	if err != nil {
		res.Err = errors.Wrap(err, "fetch tickers").With("job", job.String())
		return res
	}
	res.Fetched = len(items)

	now := c.now()
	tickers := make([]adapter.Ticker, 0, len(items))
	for _, item := range items {
		t, err := normalize.Normalize(job.Exchange, job.Market, item, now)
		if err != nil {
			logs.Errorf("normalize %s item, err: %+v", job, err)
			res.Skipped++
			continue
		}
		tickers = append(tickers, t)
	}

	if len(tickers) == 0 {
		return res
	}

	storeStart := c.now()
	stored, err := c.sink.Insert(ctx, tickers)
	c.metrics.ObserveStore(c.now().Sub(storeStart))
	if err != nil {
		res.Err = errors.Wrap(err, "store tickers").With("job", job.String())
		return res
	}
	res.Stored = stored

	return res
}

// Run processes jobs sequentially. A failed job is logged and the next job still runs.
func (c *Collector) Run(ctx context.Context, jobs []Job) []Result {
	runID := c.runIDs.Next()
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}

		res := c.Collect(ctx, job)
		if res.Err != nil {
			logs.Errorf("run %d, job %s failed, err: %+v", runID, job, res.Err)
		} else {
			logs.Infof("run %d, job %s, fetched: %d, stored: %d, skipped: %d, elapsed: %s",
				runID, job, res.Fetched, res.Stored, res.Skipped, res.Elapsed)
		}
		results = append(results, res)
	}

	return results
}

// Loop runs immediately and then every interval until ctx is done or the process shuts down.
func (c *Collector) Loop(ctx context.Context, jobs []Job, interval time.Duration) error {
	if interval <= 0 {
		return errors.Wrapf(exception.ErrInvalidArgument, "interval: %s", interval)
	}

	c.Run(ctx, jobs)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logs.Info("stop collector loop. reason: context done")
			return nil
		case <-sys.Shutdown():
			logs.Info("stop collector loop. reason: shutdown")
			return nil
		case <-ticker.C:
			c.Run(ctx, jobs)
		}
	}
}
