package logger

import (
	"log/slog"
)

// StyledLogger wraps slog with theme-aware helpers for the messages we print
// most, route registration and upstream calls
type StyledLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	InfoWithCount(msg string, count int, args ...any)
	InfoWithRoute(msg string, route string, args ...any)
	ErrorWithUpstream(msg string, upstream string, args ...any)

	WarnWithContext(msg string, route string, ctx LogContext)

	GetUnderlying() *slog.Logger
	WithRequestID(requestID string) StyledLogger
	With(args ...any) StyledLogger
}

// LogContext separates user-facing from detailed logging context
type LogContext struct {
	UserArgs     []interface{}
	DetailedArgs []interface{}
}
