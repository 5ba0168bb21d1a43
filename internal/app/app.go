package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fraudknight/hsproxy/internal/app/services"
	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/logger"
	"github.com/fraudknight/hsproxy/pkg/container"
	"github.com/fraudknight/hsproxy/pkg/eventbus"
)

// Application wires the services together and owns their lifecycle
type Application struct {
	config    *config.Config
	logger    logger.StyledLogger
	manager   *services.ServiceManager
	reloads   *eventbus.EventBus[*config.Config]
	http      *services.HTTPService
	startTime time.Time
}

// New loads configuration and registers every service. Nothing listens until Run.
func New(startTime time.Time, log logger.StyledLogger) (*Application, error) {
	reloads := eventbus.New[*config.Config]()

	cfg, err := config.Load(func(reloaded *config.Config, err error) {
		if err != nil {
			log.Error("Rejected config reload, keeping the running config", "error", err)
			return
		}
		reloads.Publish(reloaded)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)

	if cfg.Filename != "" {
		log.Info("Loaded configuration", "file", cfg.Filename)
	} else {
		log.Info("No config file found, using defaults and environment")
	}

	app := &Application{
		config:    cfg,
		logger:    log,
		manager:   services.NewServiceManager(log),
		reloads:   reloads,
		startTime: startTime,
	}
	if err := app.registerServices(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *Application) registerServices() error {
	statsSvc := services.NewStatsService(a.logger)
	metricsSvc := services.NewMetricsService(&a.config.Telemetry.Metrics, a.logger)
	forwarderSvc := services.NewForwarderService(&a.config.Upstream, a.logger)

	a.http = services.NewHTTPService(a.config, a.logger)
	a.http.SetDependencies(statsSvc, metricsSvc, forwarderSvc)

	managed := []services.ManagedService{
		statsSvc,
		metricsSvc,
		forwarderSvc,
		services.NewConfigWatchService(a.config, a.reloads, a.logger),
		a.http,
	}
	if addr := a.config.Engineering.ProfilerAddress; addr != "" {
		managed = append(managed, services.NewProfilerService(addr, a.logger))
	}

	for _, svc := range managed {
		if err := a.manager.Register(svc); err != nil {
			return err
		}
	}
	return nil
}

// Run starts every service and blocks until ctx is cancelled or the HTTP
// server fails, then shuts down within server.shutdown_timeout
func (a *Application) Run(ctx context.Context) error {
	if container.IsContainerised() {
		a.logger.Info("Running inside a container")
	}

	if err := a.manager.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case err := <-a.http.Errors():
			return fmt.Errorf("http server: %w", err)
		case <-gctx.Done():
			return nil
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop shuts every service down in reverse start order
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
	defer cancel()

	a.reloads.Shutdown()

	if err := a.manager.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("All services stopped", "uptime", time.Since(a.startTime).Round(time.Second))
	return nil
}

// Config returns the configuration the services were started with
func (a *Application) Config() *config.Config {
	return a.config
}

// Addr is the bound HTTP address once Run has started the server
func (a *Application) Addr() string {
	return a.http.Addr()
}
