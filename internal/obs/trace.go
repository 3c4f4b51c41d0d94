package obs

import (
	"sync/atomic"
	"time"
)

// RunIDs hands out monotonically increasing collection run IDs.
type RunIDs struct {
	next uint64
}

// NewRunIDs returns a generator seeded with the given value. Zero seeds from the clock.
func NewRunIDs(seed uint64) *RunIDs {
	if seed == 0 {
		seed = uint64(time.Now().UTC().UnixNano())
	}
	return &RunIDs{next: seed}
}

// Next returns the next run ID.
func (g *RunIDs) Next() uint64 {
	if g == nil {
		return 0
	}
	return atomic.AddUint64(&g.next, 1)
}
