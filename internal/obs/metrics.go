package obs

import (
	"sync/atomic"
	"time"

	"marketscan/internal/adapter/enum"
)

const (
	maxExchange = int(enum.ExchangeOKX)
	maxMarket   = int(enum.MarketOptions)
)

// Metrics collects lightweight per job counters and latency stats.
type Metrics struct {
	jobs [maxExchange + 1][maxMarket + 1]jobCounters

	fetchLatency LatencyStats
	storeLatency LatencyStats
	jobLatency   LatencyStats
}

type jobCounters struct {
	runs     uint64
	failures uint64
	fetched  uint64
	stored   uint64
	skipped  uint64
}

// JobKey names one (exchange, market) job in a snapshot.
type JobKey struct {
	Exchange enum.Exchange
	Market   enum.MarketType
}

// JobSnapshot is a point-in-time view of one job's counters.
type JobSnapshot struct {
	Runs     uint64
	Failures uint64
	Fetched  uint64
	Stored   uint64
	Skipped  uint64
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Jobs         map[JobKey]JobSnapshot
	FetchLatency LatencySnapshot
	StoreLatency LatencySnapshot
	JobLatency   LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) counters(exchange enum.Exchange, market enum.MarketType) *jobCounters {
	e, k := int(exchange), int(market)
	if e < 0 || e > maxExchange || k < 0 || k > maxMarket {
		return nil
	}
	return &m.jobs[e][k]
}

// ObserveJob records the outcome of one job run.
func (m *Metrics) ObserveJob(exchange enum.Exchange, market enum.MarketType, fetched, stored, skipped int, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	c := m.counters(exchange, market)
	if c == nil {
		return
	}
	atomic.AddUint64(&c.runs, 1)
	if failed {
		atomic.AddUint64(&c.failures, 1)
	}
	atomic.AddUint64(&c.fetched, uint64(fetched))
	atomic.AddUint64(&c.stored, uint64(stored))
	atomic.AddUint64(&c.skipped, uint64(skipped))
	m.jobLatency.Observe(d)
}

// ObserveFetch measures venue request latency.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchLatency.Observe(d)
}

// ObserveStore measures persistence latency.
func (m *Metrics) ObserveStore(d time.Duration) {
	if m == nil {
		return
	}
	m.storeLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values. Jobs that never ran are omitted.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	jobs := make(map[JobKey]JobSnapshot)
	for e := range m.jobs {
		for k := range m.jobs[e] {
			c := &m.jobs[e][k]
			runs := atomic.LoadUint64(&c.runs)
			if runs == 0 {
				continue
			}
			jobs[JobKey{Exchange: enum.Exchange(e), Market: enum.MarketType(k)}] = JobSnapshot{
				Runs:     runs,
				Failures: atomic.LoadUint64(&c.failures),
				Fetched:  atomic.LoadUint64(&c.fetched),
				Stored:   atomic.LoadUint64(&c.stored),
				Skipped:  atomic.LoadUint64(&c.skipped),
			}
		}
	}
	return Snapshot{
		Jobs:         jobs,
		FetchLatency: m.fetchLatency.Snapshot(),
		StoreLatency: m.storeLatency.Snapshot(),
		JobLatency:   m.jobLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
