package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fraudknight/hsproxy/theme"
)

func TestPlainStyledLogger_Messages(t *testing.T) {
	var buf bytes.Buffer
	sl := NewPlainStyledLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	sl.InfoWithCount("routes registered", 7)
	sl.ErrorWithUpstream("upstream failed", "https://dev.fraudknight.com/api/gateway/users/1")
	sl.WarnWithContext("rejected", "/api/v1/cases", LogContext{
		UserArgs:     []interface{}{"status", 400},
		DetailedArgs: []interface{}{"query", "page=1"},
	})

	out := buf.String()
	assert.Contains(t, out, "routes registered (7)")
	assert.Contains(t, out, "upstream failed https://dev.fraudknight.com/api/gateway/users/1")
	assert.Contains(t, out, "rejected /api/v1/cases")
	assert.Contains(t, out, "query=page=1")
}

func TestPrettyStyledLogger_With(t *testing.T) {
	var buf bytes.Buffer
	sl := NewPrettyStyledLogger(slog.New(slog.NewTextHandler(&buf, nil)), theme.Default())

	child := sl.With("route", "cases")
	child.Info("forwarded")

	_, ok := child.(*PrettyStyledLogger)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "route=cases")
}
