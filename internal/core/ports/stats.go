package ports

import (
	"time"

	"github.com/fraudknight/hsproxy/internal/core/domain"
)

// StatsCollector tracks per-route-family pipeline outcomes
type StatsCollector interface {
	RecordOutcome(family domain.RouteFamily, outcome domain.Outcome, latency time.Duration)
	GetRouteStats() map[string]RouteStats
}

// MetricsRecorder mirrors pipeline events into an external metrics backend
type MetricsRecorder interface {
	RecordRequest(family domain.RouteFamily, method string, status int, outcome domain.Outcome)
	RecordUpstreamLatency(family domain.RouteFamily, latency time.Duration)
	RecordRejection(family domain.RouteFamily, reason string)
	RecordFilteredValue(family domain.RouteFamily, param string)
}

type RouteStats struct {
	Family           string  `json:"family"`
	TotalRequests    int64   `json:"total_requests"`
	Relayed          int64   `json:"relayed"`
	Rejected         int64   `json:"rejected"`
	UpstreamFailures int64   `json:"upstream_failures"`
	AverageLatency   int64   `json:"avg_latency_ms"`
	TotalLatency     int64   `json:"total_latency_ms"`
	P50Latency       int64   `json:"p50_latency_ms"`
	P95Latency       int64   `json:"p95_latency_ms"`
	P99Latency       int64   `json:"p99_latency_ms"`
	LastRequest      int64   `json:"last_request_unix,omitempty"`
	SuccessRate      float64 `json:"success_rate_percent"`
}
