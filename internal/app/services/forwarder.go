package services

import (
	"context"

	"github.com/fraudknight/hsproxy/internal/adapter/forwarder"
	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/core/ports"
	"github.com/fraudknight/hsproxy/internal/logger"
)

// ForwarderService owns the outbound HTTP client shared by every proxy route
type ForwarderService struct {
	config    *config.UpstreamConfig
	forwarder *forwarder.Service
	logger    logger.StyledLogger
}

func NewForwarderService(config *config.UpstreamConfig, logger logger.StyledLogger) *ForwarderService {
	return &ForwarderService{
		config: config,
		logger: logger,
	}
}

func (s *ForwarderService) Name() string {
	return ServiceForwarder
}

func (s *ForwarderService) Start(ctx context.Context) error {
	s.forwarder = forwarder.NewService(&forwarder.Configuration{
		Timeout: s.config.Timeout,
	}, s.logger)
	s.logger.Debug("Forwarder initialised", "timeout", s.config.Timeout)
	return nil
}

// Stop drops idle upstream connections
func (s *ForwarderService) Stop(ctx context.Context) error {
	if s.forwarder != nil {
		s.forwarder.CloseIdleConnections()
	}
	return nil
}

func (s *ForwarderService) Dependencies() []string {
	return nil
}

func (s *ForwarderService) GetForwarder() ports.Forwarder {
	if s.forwarder == nil {
		panic("forwarder not initialised")
	}
	return s.forwarder
}
