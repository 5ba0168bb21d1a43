package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fraudknight/hsproxy/internal/core/domain"
	"github.com/fraudknight/hsproxy/internal/core/ports"
)

const (
	DefaultNamespace = "hsproxy"
)

// upstream latencies sit between a few ms and the 30s client timeout
var defaultLatencyBuckets = []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Collector records pipeline events as prometheus metrics:
//   - hsproxy_requests_total{route,method,status,outcome}
//   - hsproxy_upstream_latency_seconds{route}
//   - hsproxy_rejections_total{route,reason}
//   - hsproxy_upstream_failures_total{route}
//   - hsproxy_filtered_values_total{route,param}
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	rejectionsTotal  *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	filteredValues   *prometheus.CounterVec
}

var _ ports.MetricsRecorder = (*Collector)(nil)

// NewCollector registers every metric with registry, creating a private one when nil
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: DefaultNamespace,
				Name:      "requests_total",
				Help:      "Requests handled per route family",
			},
			[]string{"route", "method", "status", "outcome"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: DefaultNamespace,
				Name:      "upstream_latency_seconds",
				Help:      "Latency of calls to the upstream gateway",
				Buckets:   defaultLatencyBuckets,
			},
			[]string{"route"},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: DefaultNamespace,
				Name:      "rejections_total",
				Help:      "Requests rejected before reaching the upstream",
			},
			[]string{"route", "reason"},
		),
		upstreamFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: DefaultNamespace,
				Name:      "upstream_failures_total",
				Help:      "Upstream calls that failed at the transport level",
			},
			[]string{"route"},
		),
		filteredValues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: DefaultNamespace,
				Name:      "filtered_values_total",
				Help:      "Query values dropped by enumerated value validation",
			},
			[]string{"route", "param"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.upstreamLatency,
		c.rejectionsTotal,
		c.upstreamFailures,
		c.filteredValues,
	)

	return c
}

func (c *Collector) RecordRequest(family domain.RouteFamily, method string, status int, outcome domain.Outcome) {
	c.requestsTotal.WithLabelValues(family.String(), method, strconv.Itoa(status), string(outcome)).Inc()
	if outcome == domain.OutcomeUpstreamFailure {
		c.upstreamFailures.WithLabelValues(family.String()).Inc()
	}
}

func (c *Collector) RecordUpstreamLatency(family domain.RouteFamily, latency time.Duration) {
	c.upstreamLatency.WithLabelValues(family.String()).Observe(latency.Seconds())
}

func (c *Collector) RecordRejection(family domain.RouteFamily, reason string) {
	c.rejectionsTotal.WithLabelValues(family.String(), reason).Inc()
}

func (c *Collector) RecordFilteredValue(family domain.RouteFamily, param string) {
	c.filteredValues.WithLabelValues(family.String(), param).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// NoopRecorder is used when metrics are disabled
type NoopRecorder struct{}

func (NoopRecorder) RecordRequest(domain.RouteFamily, string, int, domain.Outcome) {}
func (NoopRecorder) RecordUpstreamLatency(domain.RouteFamily, time.Duration)       {}
func (NoopRecorder) RecordRejection(domain.RouteFamily, string)                    {}
func (NoopRecorder) RecordFilteredValue(domain.RouteFamily, string)                {}
