package services

import (
	"context"

	"github.com/fraudknight/hsproxy/internal/logger"
	"github.com/fraudknight/hsproxy/pkg/profiler"
)

// ProfilerService runs pprof on engineering.profiler_address. It is only
// registered when that address is set.
type ProfilerService struct {
	address string
	server  *profiler.Server
	logger  logger.StyledLogger
}

func NewProfilerService(address string, logger logger.StyledLogger) *ProfilerService {
	return &ProfilerService{
		address: address,
		logger:  logger,
	}
}

func (s *ProfilerService) Name() string {
	return ServiceProfiler
}

func (s *ProfilerService) Start(ctx context.Context) error {
	s.server = profiler.New(s.address)
	if err := s.server.Start(); err != nil {
		return err
	}
	s.logger.Warn("Profiler enabled, do not expose this port", "bind", s.server.Addr())

	go func() {
		if err, ok := <-s.server.Errors(); ok {
			s.logger.Error("Profiler stopped", "error", err)
		}
	}()
	return nil
}

func (s *ProfilerService) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Stop(ctx)
}

func (s *ProfilerService) Dependencies() []string {
	return nil
}
