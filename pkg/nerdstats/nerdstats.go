// Package nerdstats snapshots Go runtime statistics for /internal/process and
// the shutdown report. Field meanings follow runtime.MemStats.
package nerdstats

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/fraudknight/hsproxy/pkg/format"
)

const (
	PressureLow    = "LOW"
	PressureMedium = "MEDIUM"
	PressureHigh   = "HIGH"

	GoroutinesHealthy    = "HEALTHY"
	GoroutinesNormal     = "NORMAL"
	GoroutinesElevated   = "ELEVATED"
	GoroutinesConcerning = "CONCERNING"
)

type NerdStats struct {
	LastGC    time.Time
	BuildInfo *debug.BuildInfo
	GoVersion string

	HeapAlloc  uint64
	HeapSys    uint64
	HeapInuse  uint64
	TotalAlloc uint64 // cumulative
	Mallocs    uint64
	Frees      uint64

	TotalGCTime   time.Duration
	Uptime        time.Duration
	GCCPUFraction float64
	NumGC         uint32

	NumGoroutines int
	NumCPU        int
	GOMAXPROCS    int
}

func Snapshot(startTime time.Time) *NerdStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &NerdStats{
		HeapAlloc:     m.HeapAlloc,
		HeapSys:       m.HeapSys,
		HeapInuse:     m.HeapInuse,
		TotalAlloc:    m.TotalAlloc,
		Mallocs:       m.Mallocs,
		Frees:         m.Frees,
		NumGC:         m.NumGC,
		GCCPUFraction: m.GCCPUFraction,
		TotalGCTime:   time.Duration(m.PauseTotalNs),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		GoVersion:     runtime.Version(),
		Uptime:        time.Since(startTime),
	}

	if m.LastGC > 0 {
		stats.LastGC = time.Unix(0, int64(m.LastGC))
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		stats.BuildInfo = info
	}

	return stats
}

// GetMemoryPressure is a rough read of how full the heap is and whether
// allocations are outpacing frees
func (ps *NerdStats) GetMemoryPressure() string {
	if ps.HeapSys == 0 {
		return PressureLow
	}
	heapUsage := float64(ps.HeapInuse) / float64(ps.HeapSys)
	allocsPerFree := float64(ps.Mallocs) / float64(ps.Frees+1)

	switch {
	case heapUsage > 0.9 && allocsPerFree > 1.5:
		return PressureHigh
	case heapUsage > 0.7 || allocsPerFree > 1.2:
		return PressureMedium
	default:
		return PressureLow
	}
}

// GetGoroutineHealthStatus buckets the goroutine count. A proxy this size
// idles well under a hundred.
func (ps *NerdStats) GetGoroutineHealthStatus() string {
	switch {
	case ps.NumGoroutines > 1000:
		return GoroutinesConcerning
	case ps.NumGoroutines > 500:
		return GoroutinesElevated
	case ps.NumGoroutines > 100:
		return GoroutinesNormal
	default:
		return GoroutinesHealthy
	}
}

// GetBuildInfoSummary picks the module path, version and the vcs/platform
// settings worth logging
func (ps *NerdStats) GetBuildInfoSummary() map[string]string {
	summary := make(map[string]string)
	if ps.BuildInfo == nil {
		return summary
	}

	summary["path"] = ps.BuildInfo.Path
	summary["main_version"] = ps.BuildInfo.Main.Version
	for _, setting := range ps.BuildInfo.Settings {
		switch setting.Key {
		case "CGO_ENABLED", "GOARCH", "GOOS", "vcs.revision", "vcs.time":
			summary[setting.Key] = setting.Value
		}
	}
	return summary
}

func CalculateAverageGCPause(stats *NerdStats) string {
	if stats.NumGC == 0 {
		return "N/A"
	}
	return format.Duration(stats.TotalGCTime / time.Duration(stats.NumGC))
}
