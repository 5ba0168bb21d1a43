package forwarder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/core/domain"
	"github.com/fraudknight/hsproxy/internal/core/ports"
	"github.com/fraudknight/hsproxy/internal/logger"
)

const (
	DefaultMaxIdleConns        = 50
	DefaultMaxIdleConnsPerHost = 20
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultTLSHandshakeTimeout = 10 * time.Second
	DefaultDialTimeout         = 10 * time.Second
	DefaultKeepAlive           = 30 * time.Second
)

// Configuration holds the outbound client settings
type Configuration struct {
	// Timeout bounds the whole upstream exchange, 0 disables it
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// Service performs a single outbound call per request and captures the
// response in full. It never retries.
type Service struct {
	client *http.Client
	logger logger.StyledLogger
}

var _ ports.Forwarder = (*Service)(nil)

func NewService(configuration *Configuration, log logger.StyledLogger) *Service {
	if configuration.MaxIdleConns == 0 {
		configuration.MaxIdleConns = DefaultMaxIdleConns
	}
	if configuration.IdleConnTimeout == 0 {
		configuration.IdleConnTimeout = DefaultIdleConnTimeout
	}

	return &Service{
		client: &http.Client{
			Transport: createTransport(configuration),
			Timeout:   configuration.Timeout,
		},
		logger: log,
	}
}

// NewServiceWithClient is used by tests to swap the client
func NewServiceWithClient(client *http.Client, log logger.StyledLogger) *Service {
	return &Service{client: client, logger: log}
}

func createTransport(config *Configuration) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: DefaultTLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
		DialContext: (&net.Dialer{
			Timeout:   DefaultDialTimeout,
			KeepAlive: DefaultKeepAlive,
		}).DialContext,
	}
}

// Forward sends req upstream. Any HTTP status is a successful exchange and is
// returned as is; only transport failures produce a *domain.ForwardError.
func (s *Service) Forward(ctx context.Context, req *ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	start := time.Now()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	outReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, domain.NewForwardError(req.RequestID, req.Method, req.URL, 0, fmt.Errorf("building upstream request: %w", err))
	}
	for name, values := range req.Header {
		for _, v := range values {
			outReq.Header.Add(name, v)
		}
	}

	s.logger.Debug("Forwarding request upstream",
		"request_id", req.RequestID,
		"method", req.Method,
		"upstream", req.URL)

	resp, err := s.client.Do(outReq)
	if err != nil {
		latency := time.Since(start)
		return nil, domain.NewForwardError(req.RequestID, req.Method, req.URL, latency, describeTransportError(err, latency))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		latency := time.Since(start)
		return nil, domain.NewForwardError(req.RequestID, req.Method, req.URL, latency,
			fmt.Errorf("reading upstream response: %w", describeTransportError(err, latency)))
	}

	s.logger.Debug("Upstream responded",
		"request_id", req.RequestID,
		"status", resp.StatusCode,
		"bytes", len(data),
		"latency", time.Since(start))

	return &ports.UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get(constants.HeaderContentType),
		Body:        data,
	}, nil
}

// CloseIdleConnections releases pooled upstream connections on shutdown
func (s *Service) CloseIdleConnections() {
	s.client.CloseIdleConnections()
}
