package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fraudknight/hsproxy/internal/adapter/forwarder"
	"github.com/fraudknight/hsproxy/internal/adapter/metrics"
	"github.com/fraudknight/hsproxy/internal/adapter/stats"
	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/logger"
)

const testGatewayPath = "/api/gateway"

type capturedRequest struct {
	Header   http.Header
	Method   string
	Path     string
	RawQuery string
	Body     []byte
}

// fakeUpstream records every request it receives and answers with a canned response
type fakeUpstream struct {
	server      *httptest.Server
	contentType string
	body        string
	requests    []capturedRequest
	status      int
	mu          sync.Mutex
}

func newFakeUpstream(t *testing.T, status int, contentType, body string) *fakeUpstream {
	t.Helper()

	f := &fakeUpstream{status: status, contentType: contentType, body: body}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, capturedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     data,
		})
		f.mu.Unlock()

		if f.contentType != "" {
			w.Header().Set("Content-Type", f.contentType)
		} else {
			w.Header()["Content-Type"] = nil
		}
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) baseURL() string {
	return f.server.URL + testGatewayPath
}

func (f *fakeUpstream) calls() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

func (f *fakeUpstream) lastCall(t *testing.T) capturedRequest {
	t.Helper()
	calls := f.calls()
	require.NotEmpty(t, calls, "upstream was never called")
	return calls[len(calls)-1]
}

func testLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp points both gateways at upstream unless mutate says otherwise
func newTestApp(t *testing.T, upstream *fakeUpstream, mutate func(cfg *config.Config)) (*Application, http.Handler) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.Port = 0
	cfg.Server.Host = "127.0.0.1"
	if upstream != nil {
		cfg.Upstream.DevBaseURL = upstream.baseURL()
		cfg.Upstream.ProdBaseURL = upstream.baseURL()
	}
	if mutate != nil {
		mutate(cfg)
	}

	log := testLogger()
	collector := metrics.NewCollector(nil)
	fwd := forwarder.NewService(&forwarder.Configuration{Timeout: 5 * time.Second}, log)

	app, err := NewApplication(cfg, fwd, stats.NewRouteCollector(), collector, collector.Handler(), log)
	require.NoError(t, err)

	return app, app.Handler()
}

func authorised(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("x-tenant-id", "7")
	return req
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
