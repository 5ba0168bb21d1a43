package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/fraudknight/hsproxy/internal/app"
	"github.com/fraudknight/hsproxy/internal/app/handlers"
	"github.com/fraudknight/hsproxy/internal/env"
	"github.com/fraudknight/hsproxy/internal/logger"
	"github.com/fraudknight/hsproxy/internal/version"
	"github.com/fraudknight/hsproxy/pkg/format"
	"github.com/fraudknight/hsproxy/pkg/nerdstats"
)

func main() {
	startTime := time.Now()
	banner := log.New(os.Stdout, "", 0)

	showVersion := len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v")
	version.PrintVersionInfo(showVersion, banner)
	if showVersion {
		return
	}

	logInstance, styledLogger, cleanup, err := logger.NewWithTheme(buildLoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	slog.SetDefault(logInstance)

	styledLogger.Info("Starting "+version.Name, "version", version.Version, "pid", os.Getpid())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(startTime, styledLogger)
	if err != nil {
		logger.FatalWithLogger(logInstance, "Failed to create application", "error", err)
	}

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, handlers.ErrPortInUse) {
			logger.FatalWithLogger(logInstance, "Port already in use", "error", err)
		}
		styledLogger.Error("Server stopped with error", "error", err)
	}

	if application.Config().Engineering.ShowNerdStats {
		reportProcessStats(styledLogger, startTime)
	}

	styledLogger.Info("Shutdown complete")
}

type statSection struct {
	title string
	attrs []any
}

// reportProcessStats logs a final runtime snapshot, one line per section
func reportProcessStats(log logger.StyledLogger, startTime time.Time) {
	runtime.GC()
	s := nerdstats.Snapshot(startTime)

	sections := []statSection{
		{"Memory at shutdown", []any{
			"heap_alloc", format.Bytes(s.HeapAlloc),
			"heap_sys", format.Bytes(s.HeapSys),
			"total_alloc", format.Bytes(s.TotalAlloc),
			"pressure", s.GetMemoryPressure(),
		}},
		{"Runtime at shutdown", []any{
			"uptime", format.Duration(s.Uptime),
			"goroutines", s.NumGoroutines,
			"goroutine_health", s.GetGoroutineHealthStatus(),
			"go", s.GoVersion,
		}},
	}
	if s.NumGC > 0 {
		sections = append(sections, statSection{"GC at shutdown", []any{
			"cycles", s.NumGC,
			"total_pause", format.Duration(s.TotalGCTime),
			"avg_pause", nerdstats.CalculateAverageGCPause(s),
			"cpu_fraction", fmt.Sprintf("%.4f%%", s.GCCPUFraction*100),
		}})
	}

	build := s.GetBuildInfoSummary()
	if len(build) > 0 {
		keys := make([]string, 0, len(build))
		for k := range build {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make([]any, 0, 2*len(keys))
		for _, k := range keys {
			attrs = append(attrs, k, build[k])
		}
		log.Debug("Build info", attrs...)
	}

	for _, sec := range sections {
		log.Info(sec.title, sec.attrs...)
	}
}

// buildLoggerConfig reads the logger setup from HSPROXY_* variables. The log
// level here only covers startup; config.yaml takes over once it loads.
func buildLoggerConfig() *logger.Config {
	return &logger.Config{
		Level:      env.GetEnvOrDefault("HSPROXY_LOG_LEVEL", "info"),
		FileOutput: env.GetEnvBoolOrDefault("HSPROXY_FILE_OUTPUT", false),
		LogDir:     env.GetEnvOrDefault("HSPROXY_LOG_DIR", "./logs"),
		MaxSize:    env.GetEnvIntOrDefault("HSPROXY_MAX_SIZE", 100),
		MaxBackups: env.GetEnvIntOrDefault("HSPROXY_MAX_BACKUPS", 5),
		MaxAge:     env.GetEnvIntOrDefault("HSPROXY_MAX_AGE", 30),
		Theme:      env.GetEnvOrDefault("HSPROXY_THEME", "default"),
	}
}
