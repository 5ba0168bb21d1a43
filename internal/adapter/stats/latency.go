package stats

import (
	"math/rand/v2"
	"slices"
	"sync"
)

const DefaultLatencySamples = 200

// latencyReservoir keeps a bounded uniform sample of latencies so percentiles
// stay cheap regardless of traffic volume
type latencyReservoir struct {
	samples []int64
	size    int
	seen    int64
	mu      sync.Mutex
}

func newLatencyReservoir(size int) *latencyReservoir {
	if size <= 0 {
		size = DefaultLatencySamples
	}
	return &latencyReservoir{
		size:    size,
		samples: make([]int64, 0, size),
	}
}

func (r *latencyReservoir) Add(ms int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen++
	if len(r.samples) < r.size {
		r.samples = append(r.samples, ms)
		return
	}

	if j := rand.Int64N(r.seen); j < int64(r.size) { //nolint:gosec // sampling, not crypto
		r.samples[j] = ms
	}
}

// Percentiles returns p50, p95 and p99 of the current sample
func (r *latencyReservoir) Percentiles() (p50, p95, p99 int64) {
	r.mu.Lock()
	sorted := slices.Clone(r.samples)
	r.mu.Unlock()

	if len(sorted) == 0 {
		return 0, 0, 0
	}
	slices.Sort(sorted)

	at := func(pct int) int64 {
		idx := len(sorted) * pct / 100
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		return sorted[idx]
	}
	return at(50), at(95), at(99)
}

func (r *latencyReservoir) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen
}
