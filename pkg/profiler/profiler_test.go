package profiler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServesIndex(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "goroutine")
}

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	srv := New("127.0.0.1:0")
	require.NoError(t, srv.Start())
	require.NotEmpty(t, srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/debug/pprof/cmdline")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
}

func TestServer_StartFailsOnTakenPort(t *testing.T) {
	t.Parallel()

	first := New("127.0.0.1:0")
	require.NoError(t, first.Start())
	defer first.Stop(context.Background())

	second := New(first.Addr())
	assert.Error(t, second.Start())
}
