package obs

import (
	"sync"
	"testing"
	"time"

	"marketscan/internal/adapter/enum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserveJob(t *testing.T) {
	m := NewMetrics()

	m.ObserveJob(enum.ExchangeBinance, enum.MarketSpot, 10, 9, 1, false, 2*time.Millisecond)
	m.ObserveJob(enum.ExchangeBinance, enum.MarketSpot, 0, 0, 0, true, 4*time.Millisecond)
	m.ObserveJob(enum.Exchange(200), enum.MarketSpot, 1, 1, 0, false, time.Millisecond)

	snap := m.Snapshot()
	require.Len(t, snap.Jobs, 1)

	job := snap.Jobs[JobKey{Exchange: enum.ExchangeBinance, Market: enum.MarketSpot}]
	assert.Equal(t, JobSnapshot{Runs: 2, Failures: 1, Fetched: 10, Stored: 9, Skipped: 1}, job)

	assert.Equal(t, uint64(2), snap.JobLatency.Count)
	assert.Equal(t, 2*time.Millisecond, snap.JobLatency.Min)
	assert.Equal(t, 4*time.Millisecond, snap.JobLatency.Max)
	assert.Equal(t, 3*time.Millisecond, snap.JobLatency.Avg)
}

func TestLatencyStatsConcurrent(t *testing.T) {
	var l LatencyStats

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(d time.Duration) {
			defer wg.Done()
			l.Observe(d)
		}(time.Duration(i) * time.Microsecond)
	}
	wg.Wait()

	snap := l.Snapshot()
	assert.Equal(t, uint64(100), snap.Count)
	assert.Equal(t, time.Microsecond, snap.Min)
	assert.Equal(t, 100*time.Microsecond, snap.Max)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveFetch(time.Second)
	m.ObserveStore(time.Second)
	m.ObserveJob(enum.ExchangeOKX, enum.MarketOptions, 1, 1, 0, false, time.Second)
	assert.Equal(t, Snapshot{}, m.Snapshot())

	var ids *RunIDs
	assert.Zero(t, ids.Next())

	ids = NewRunIDs(41)
	assert.Equal(t, uint64(42), ids.Next())
	assert.Equal(t, uint64(43), ids.Next())
}
