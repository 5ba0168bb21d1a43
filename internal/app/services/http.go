package services

import (
	"context"

	"github.com/fraudknight/hsproxy/internal/app/handlers"
	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/logger"
)

// HTTPService owns the public listener. It starts last so every route is
// backed by a live forwarder, stats collector and metrics recorder.
type HTTPService struct {
	config       *config.Config
	application  *handlers.Application
	logger       logger.StyledLogger
	statsSvc     *StatsService
	metricsSvc   *MetricsService
	forwarderSvc *ForwarderService
}

func NewHTTPService(config *config.Config, logger logger.StyledLogger) *HTTPService {
	return &HTTPService{
		config: config,
		logger: logger,
	}
}

func (s *HTTPService) Name() string {
	return ServiceHTTP
}

func (s *HTTPService) Start(ctx context.Context) error {
	application, err := handlers.NewApplication(
		s.config,
		s.forwarderSvc.GetForwarder(),
		s.statsSvc.GetCollector(),
		s.metricsSvc.GetRecorder(),
		s.metricsSvc.GetHandler(),
		s.logger,
	)
	if err != nil {
		return err
	}
	s.application = application

	return s.application.Start()
}

func (s *HTTPService) Stop(ctx context.Context) error {
	if s.application == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP server, draining in-flight requests")
	return s.application.Stop(ctx)
}

func (s *HTTPService) Dependencies() []string {
	return []string{ServiceStats, ServiceMetrics, ServiceForwarder}
}

func (s *HTTPService) SetDependencies(stats *StatsService, metrics *MetricsService, forwarder *ForwarderService) {
	s.statsSvc = stats
	s.metricsSvc = metrics
	s.forwarderSvc = forwarder
}

// Errors carries serve failures after a successful Start. It is nil before Start.
func (s *HTTPService) Errors() <-chan error {
	if s.application == nil {
		return nil
	}
	return s.application.Errors()
}

// Addr is the bound address once started
func (s *HTTPService) Addr() string {
	if s.application == nil {
		return ""
	}
	return s.application.Addr()
}
