package services

import (
	"context"

	"github.com/fraudknight/hsproxy/internal/adapter/stats"
	"github.com/fraudknight/hsproxy/internal/core/ports"
	"github.com/fraudknight/hsproxy/internal/logger"
)

// StatsService owns the per-route counters behind /internal/status. It has no
// dependencies so it starts first.
type StatsService struct {
	collector ports.StatsCollector
	logger    logger.StyledLogger
}

func NewStatsService(logger logger.StyledLogger) *StatsService {
	return &StatsService{
		logger: logger,
	}
}

func (s *StatsService) Name() string {
	return ServiceStats
}

func (s *StatsService) Start(ctx context.Context) error {
	s.collector = stats.NewRouteCollector()
	s.logger.Debug("Stats collector initialised")
	return nil
}

// Stop is a no-op, the collector holds nothing that needs releasing
func (s *StatsService) Stop(ctx context.Context) error {
	return nil
}

func (s *StatsService) Dependencies() []string {
	return nil
}

// GetCollector panics if called before Start
func (s *StatsService) GetCollector() ports.StatsCollector {
	if s.collector == nil {
		panic("stats collector not initialised")
	}
	return s.collector
}
