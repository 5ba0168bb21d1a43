package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/docker/go-units"

	"github.com/fraudknight/hsproxy/internal/core/constants"
)

// ErrPortInUse is returned by Start when the configured port is taken
var ErrPortInUse = errors.New("port already in use")

// Start binds the listener before returning so a taken port fails startup
// rather than surfacing later on the error channel
func (a *Application) Start() error {
	configServer := a.Config.Server

	a.logger.Info("Starting hsproxy server...", "host", configServer.Host, "port", configServer.Port,
		"read_timeout", configServer.ReadTimeout, "write_timeout", configServer.WriteTimeout)

	if configServer.RequestLimits.MaxBodySize > 0 {
		a.logger.Info("Request size limits enabled",
			"max_body_size", units.HumanSize(float64(configServer.RequestLimits.MaxBodySize)))
	}

	a.logger.Info("Forwarding to upstream gateways",
		"dev", a.Config.Upstream.DevBaseURL,
		"prod", a.Config.Upstream.ProdBaseURL,
		"timeout", a.Config.Upstream.Timeout)

	a.server.Handler = a.Handler()
	a.logger.InfoWithRoute("Proxy routes mounted under", constants.DefaultAPIPathPrefix)

	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%w: port %d, set PORT to a free port and restart the server: %w",
				ErrPortInUse, configServer.Port, err)
		}
		return fmt.Errorf("listening on %s: %w", a.server.Addr, err)
	}
	a.listener = listener

	go func() {
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", "error", err)
			a.errCh <- err
		}
	}()

	a.logger.Info("Started hsproxy server", "bind", listener.Addr().String())
	return nil
}

// Stop drains in-flight requests until ctx expires
func (a *Application) Stop(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// Addr returns the bound listener address, useful when port 0 was requested
func (a *Application) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}
