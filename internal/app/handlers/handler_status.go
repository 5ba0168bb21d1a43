package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/fraudknight/hsproxy/internal/app/middleware"
	"github.com/fraudknight/hsproxy/internal/core/domain"
	"github.com/fraudknight/hsproxy/pkg/format"
)

type RouteSummary struct {
	Family           string `json:"family"`
	SuccessRate      string `json:"success_rate"`
	AverageLatency   string `json:"avg_latency"`
	P95Latency       string `json:"p95_latency"`
	LastRequest      string `json:"last_request"`
	TotalRequests    int64  `json:"total_requests"`
	Relayed          int64  `json:"relayed"`
	Rejected         int64  `json:"rejected"`
	UpstreamFailures int64  `json:"upstream_failures"`
}

type StatusResponse struct {
	Timestamp     time.Time      `json:"timestamp"`
	Uptime        string         `json:"uptime"`
	Routes        []RouteSummary `json:"routes"`
	TotalRequests int64          `json:"total_requests"`
}

// statusHandler reports per route family counters. Families that have not
// seen a request yet are listed with zeroes.
func (a *Application) statusHandler(w http.ResponseWriter, r *http.Request) {
	stats := a.statsCollector.GetRouteStats()

	response := StatusResponse{
		Timestamp: time.Now(),
		Uptime:    format.Duration(time.Since(a.StartTime)),
		Routes:    make([]RouteSummary, 0, len(domain.RouteFamilies)),
	}

	for _, family := range domain.RouteFamilies {
		summary := RouteSummary{
			Family:      family.String(),
			SuccessRate: "N/A",
			LastRequest: format.TimeAgo(time.Time{}),
		}

		if s, ok := stats[family.String()]; ok {
			summary.TotalRequests = s.TotalRequests
			summary.Relayed = s.Relayed
			summary.Rejected = s.Rejected
			summary.UpstreamFailures = s.UpstreamFailures
			summary.AverageLatency = format.Latency(s.AverageLatency)
			summary.P95Latency = format.Latency(s.P95Latency)
			if s.Relayed+s.UpstreamFailures > 0 {
				summary.SuccessRate = format.Percentage(s.SuccessRate)
			}
			if s.LastRequest > 0 {
				summary.LastRequest = format.TimeAgo(time.Unix(s.LastRequest, 0))
			}
			response.TotalRequests += s.TotalRequests
		}

		response.Routes = append(response.Routes, summary)
	}

	sort.SliceStable(response.Routes, func(i, j int) bool {
		return response.Routes[i].TotalRequests > response.Routes[j].TotalRequests
	})

	middleware.WriteJSON(w, http.StatusOK, response)
}
