package handlers

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fraudknight/hsproxy/internal/app/middleware"
	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/core/ports"
	"github.com/fraudknight/hsproxy/internal/logger"
	"github.com/fraudknight/hsproxy/internal/router"
	"github.com/fraudknight/hsproxy/pkg/pool"
)

// Application holds all the dependencies needed for the HTTP handlers
type Application struct {
	Config         *config.Config
	logger         logger.StyledLogger
	forwarder      ports.Forwarder
	statsCollector ports.StatsCollector
	metrics        ports.MetricsRecorder
	metricsHandler http.Handler
	routeRegistry  *router.RouteRegistry
	sizeLimiter    *middleware.RequestSizeLimiter
	bodyBuffers    *pool.Pool[*bytes.Buffer]
	server         *http.Server
	listener       net.Listener
	errCh          chan error
	StartTime      time.Time
}

// NewApplication wires the handlers. metricsHandler may be nil when metrics are
// disabled, in which case metrics must be a no-op recorder.
func NewApplication(
	cfg *config.Config,
	forwarder ports.Forwarder,
	statsCollector ports.StatsCollector,
	metrics ports.MetricsRecorder,
	metricsHandler http.Handler,
	logger logger.StyledLogger,
) (*Application, error) {
	bodyBuffers, err := pool.NewLitePool(func() *bytes.Buffer {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	})
	if err != nil {
		return nil, fmt.Errorf("creating body buffer pool: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config:         cfg,
		logger:         logger,
		forwarder:      forwarder,
		statsCollector: statsCollector,
		metrics:        metrics,
		metricsHandler: metricsHandler,
		routeRegistry:  router.NewRouteRegistry(logger),
		sizeLimiter:    middleware.NewRequestSizeLimiter(cfg.Server.RequestLimits),
		bodyBuffers:    bodyBuffers,
		server:         server,
		errCh:          make(chan error, 1),
		StartTime:      time.Now(),
	}, nil
}

// Errors reports fatal server errors after startup
func (a *Application) Errors() <-chan error {
	return a.errCh
}
