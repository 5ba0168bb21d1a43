package services

import (
	"context"
	"net/http"

	"github.com/fraudknight/hsproxy/internal/adapter/metrics"
	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/core/ports"
	"github.com/fraudknight/hsproxy/internal/logger"
)

// MetricsService builds the Prometheus collector, or a no-op recorder when
// telemetry.metrics.enabled is false
type MetricsService struct {
	config   *config.MetricsConfig
	recorder ports.MetricsRecorder
	handler  http.Handler
	logger   logger.StyledLogger
}

func NewMetricsService(config *config.MetricsConfig, logger logger.StyledLogger) *MetricsService {
	return &MetricsService{
		config: config,
		logger: logger,
	}
}

func (s *MetricsService) Name() string {
	return ServiceMetrics
}

func (s *MetricsService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.recorder = metrics.NoopRecorder{}
		s.logger.Info("Metrics disabled")
		return nil
	}

	collector := metrics.NewCollector(nil)
	s.recorder = collector
	s.handler = collector.Handler()
	s.logger.Debug("Metrics collector initialised")
	return nil
}

func (s *MetricsService) Stop(ctx context.Context) error {
	return nil
}

func (s *MetricsService) Dependencies() []string {
	return nil
}

func (s *MetricsService) GetRecorder() ports.MetricsRecorder {
	if s.recorder == nil {
		panic("metrics recorder not initialised")
	}
	return s.recorder
}

// GetHandler is nil when metrics are disabled
func (s *MetricsService) GetHandler() http.Handler {
	return s.handler
}
