package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudknight/hsproxy/internal/app/handlers"
	"github.com/fraudknight/hsproxy/internal/logger"
)

func testLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestApplication_RunUntilCancelled(t *testing.T) {
	port := freePort(t)
	t.Setenv("HSPROXY_SERVER_HOST", "127.0.0.1")
	t.Setenv("HSPROXY_SERVER_PORT", strconv.Itoa(port))

	application, err := New(time.Now(), testLogger())
	require.NoError(t, err)
	assert.Equal(t, port, application.Config().Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	healthURL := "http://127.0.0.1:" + strconv.Itoa(port) + "/internal/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApplication_RunPortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	t.Setenv("HSPROXY_SERVER_HOST", "127.0.0.1")
	t.Setenv("HSPROXY_SERVER_PORT", strconv.Itoa(taken.Addr().(*net.TCPAddr).Port))

	application, err := New(time.Now(), testLogger())
	require.NoError(t, err)

	err = application.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, handlers.ErrPortInUse))
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Setenv("HSPROXY_UPSTREAM_DEV_BASE_URL", "not a url")

	_, err := New(time.Now(), testLogger())
	assert.Error(t, err)
}
