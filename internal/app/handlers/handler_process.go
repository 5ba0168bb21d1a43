package handlers

import (
	"net/http"
	"time"

	"github.com/fraudknight/hsproxy/internal/app/middleware"
	"github.com/fraudknight/hsproxy/pkg/format"
	"github.com/fraudknight/hsproxy/pkg/nerdstats"
)

type healthResponse struct {
	Status string `json:"status"`
}

// healthHandler answers liveness probes. It never touches the upstream.
func (a *Application) healthHandler(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
}

type memoryReport struct {
	HeapAlloc  string `json:"heap_alloc"`
	HeapInuse  string `json:"heap_inuse"`
	TotalAlloc string `json:"total_alloc"`
	Pressure   string `json:"memory_pressure"`
}

type gcReport struct {
	LastGC   string `json:"last_gc,omitempty"`
	AvgPause string `json:"avg_gc_pause"`
	Cycles   uint32 `json:"num_gc_cycles"`
}

type goroutineReport struct {
	HealthStatus string `json:"health_status"`
	Count        int    `json:"count"`
}

type runtimeReport struct {
	Uptime     string `json:"uptime"`
	GoVersion  string `json:"go_version"`
	NumCPU     int    `json:"num_cpu"`
	GOMAXPROCS int    `json:"gomaxprocs"`
}

type ProcessStatsResponse struct {
	Timestamp         time.Time       `json:"timestamp"`
	Memory            memoryReport    `json:"memory"`
	GarbageCollection gcReport        `json:"garbage_collection"`
	Goroutines        goroutineReport `json:"goroutines"`
	Runtime           runtimeReport   `json:"runtime"`
}

func newProcessStatsResponse(s *nerdstats.NerdStats, now time.Time) ProcessStatsResponse {
	gc := gcReport{Cycles: s.NumGC, AvgPause: nerdstats.CalculateAverageGCPause(s)}
	if !s.LastGC.IsZero() {
		gc.LastGC = s.LastGC.Format(time.RFC3339)
	}

	return ProcessStatsResponse{
		Timestamp: now,
		Memory: memoryReport{
			HeapAlloc:  format.Bytes(s.HeapAlloc),
			HeapInuse:  format.Bytes(s.HeapInuse),
			TotalAlloc: format.Bytes(s.TotalAlloc),
			Pressure:   s.GetMemoryPressure(),
		},
		GarbageCollection: gc,
		Goroutines:        goroutineReport{Count: s.NumGoroutines, HealthStatus: s.GetGoroutineHealthStatus()},
		Runtime: runtimeReport{
			Uptime:     format.Duration(s.Uptime),
			GoVersion:  s.GoVersion,
			NumCPU:     s.NumCPU,
			GOMAXPROCS: s.GOMAXPROCS,
		},
	}
}

func (a *Application) processStatsHandler(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, newProcessStatsResponse(nerdstats.Snapshot(a.StartTime), time.Now()))
}
