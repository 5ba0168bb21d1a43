package stats

import (
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/fraudknight/hsproxy/internal/core/domain"
	"github.com/fraudknight/hsproxy/internal/core/ports"
)

// RouteCollector tracks pipeline outcomes per route family
type RouteCollector struct {
	routes *xsync.Map[domain.RouteFamily, *routeData]
}

type routeData struct {
	totalRequests    *xsync.Counter
	relayed          *xsync.Counter
	rejected         *xsync.Counter
	upstreamFailures *xsync.Counter

	// latency only counts requests that reached the upstream
	totalLatency *xsync.Counter
	latencies    *latencyReservoir
	lastRequest  atomic.Int64
	family       domain.RouteFamily
}

var _ ports.StatsCollector = (*RouteCollector)(nil)

func NewRouteCollector() *RouteCollector {
	return &RouteCollector{
		routes: xsync.NewMap[domain.RouteFamily, *routeData](),
	}
}

func (rc *RouteCollector) RecordOutcome(family domain.RouteFamily, outcome domain.Outcome, latency time.Duration) {
	data := rc.getOrInit(family)

	data.totalRequests.Inc()
	data.lastRequest.Store(time.Now().Unix())

	switch outcome {
	case domain.OutcomeRelayed:
		data.relayed.Inc()
		ms := latency.Milliseconds()
		data.totalLatency.Add(ms)
		data.latencies.Add(ms)
	case domain.OutcomeUpstreamFailure:
		data.upstreamFailures.Inc()
	case domain.OutcomeRejected:
		data.rejected.Inc()
	}
}

// GetRouteStats returns a snapshot keyed by route family
func (rc *RouteCollector) GetRouteStats() map[string]ports.RouteStats {
	result := make(map[string]ports.RouteStats)

	rc.routes.Range(func(family domain.RouteFamily, data *routeData) bool {
		total := data.totalRequests.Value()
		relayed := data.relayed.Value()
		failures := data.upstreamFailures.Value()
		totalLatency := data.totalLatency.Value()

		var avgLatency int64
		if relayed > 0 {
			avgLatency = totalLatency / relayed
		}

		// rejections are the caller's fault, so they don't count against success
		var successRate float64
		if attempted := relayed + failures; attempted > 0 {
			successRate = float64(relayed) / float64(attempted) * 100
		}

		p50, p95, p99 := data.latencies.Percentiles()

		result[string(family)] = ports.RouteStats{
			Family:           string(family),
			TotalRequests:    total,
			Relayed:          relayed,
			Rejected:         data.rejected.Value(),
			UpstreamFailures: failures,
			AverageLatency:   avgLatency,
			TotalLatency:     totalLatency,
			P50Latency:       p50,
			P95Latency:       p95,
			P99Latency:       p99,
			LastRequest:      data.lastRequest.Load(),
			SuccessRate:      successRate,
		}
		return true
	})

	return result
}

func (rc *RouteCollector) getOrInit(family domain.RouteFamily) *routeData {
	data, _ := rc.routes.LoadOrCompute(family, func() (*routeData, bool) {
		return &routeData{
			family:           family,
			totalRequests:    xsync.NewCounter(),
			relayed:          xsync.NewCounter(),
			rejected:         xsync.NewCounter(),
			upstreamFailures: xsync.NewCounter(),
			totalLatency:     xsync.NewCounter(),
			latencies:        newLatencyReservoir(DefaultLatencySamples),
		}, false
	})
	return data
}
