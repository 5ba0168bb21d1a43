package services

import (
	"context"
	"reflect"
	"sync"

	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/logger"
	"github.com/fraudknight/hsproxy/pkg/eventbus"
)

// ConfigWatchService applies config file reloads published on the bus. Only
// the log level takes effect live; anything else is reported as needing a
// restart.
type ConfigWatchService struct {
	current *config.Config
	reloads *eventbus.EventBus[*config.Config]
	logger  logger.StyledLogger
	cancel  func()
	done    chan struct{}
	mu      sync.Mutex
}

func NewConfigWatchService(current *config.Config, reloads *eventbus.EventBus[*config.Config], logger logger.StyledLogger) *ConfigWatchService {
	return &ConfigWatchService{
		current: current,
		reloads: reloads,
		logger:  logger,
	}
}

func (s *ConfigWatchService) Name() string {
	return ServiceConfigWatch
}

func (s *ConfigWatchService) Start(ctx context.Context) error {
	// the subscription must outlive the startup context
	ch, cancel := s.reloads.Subscribe(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		for cfg := range ch {
			s.apply(cfg)
		}
	}()
	return nil
}

func (s *ConfigWatchService) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ConfigWatchService) Dependencies() []string {
	return nil
}

// Current returns the most recently applied config
func (s *ConfigWatchService) Current() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *ConfigWatchService) apply(next *config.Config) {
	s.mu.Lock()
	previous := s.current
	s.current = next
	s.mu.Unlock()

	if previous.Logging.Level != next.Logging.Level {
		logger.SetLevel(next.Logging.Level)
		s.logger.Info("Log level changed", "from", previous.Logging.Level, "to", next.Logging.Level)
	}

	if sections := RestartRequired(previous, next); len(sections) > 0 {
		s.logger.Warn("Config changes need a restart to take effect", "file", next.Filename, "sections", sections)
	}
}

// RestartRequired lists the config sections that differ between old and next
// and are only read at startup
func RestartRequired(old, next *config.Config) []string {
	var sections []string
	if !reflect.DeepEqual(old.Server, next.Server) {
		sections = append(sections, "server")
	}
	if !reflect.DeepEqual(old.Upstream, next.Upstream) {
		sections = append(sections, "upstream")
	}
	if !reflect.DeepEqual(old.Routes, next.Routes) {
		sections = append(sections, "routes")
	}
	if !reflect.DeepEqual(old.CORS, next.CORS) {
		sections = append(sections, "cors")
	}
	if old.Logging.Format != next.Logging.Format || old.Logging.Output != next.Logging.Output {
		sections = append(sections, "logging")
	}
	if !reflect.DeepEqual(old.Telemetry, next.Telemetry) {
		sections = append(sections, "telemetry")
	}
	if !reflect.DeepEqual(old.Engineering, next.Engineering) {
		sections = append(sections, "engineering")
	}
	return sections
}
