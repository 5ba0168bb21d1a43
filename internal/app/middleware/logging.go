package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/go-chi/chi/v5"

	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/logger"
)

// IsProxyRequest reports whether path belongs to a forwarded route family
func IsProxyRequest(path string) bool {
	return strings.HasPrefix(path, constants.DefaultAPIPathPrefix+"/")
}

// statusRecorder captures what the handler wrote for the log lines
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func record(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func requestBytes(r *http.Request) int64 {
	return max(r.ContentLength, 0)
}

// RequestLogging logs one line per completed request. Forwarded routes log
// their own outcome, so for them this drops to debug.
func RequestLogging(log logger.StyledLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			fields := []any{
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", elapsed.Round(time.Microsecond),
				"bytes", FormatBytes(requestBytes(r)) + " -> " + FormatBytes(rec.bytes),
			}
			if IsProxyRequest(r.URL.Path) {
				log.Debug("Request completed", fields...)
				return
			}
			log.Info("Request completed", fields...)
		})
	}
}

// AccessLogging writes a detailed record per request that only the log file
// receives, labelled with the matched route pattern. The tenant is recorded; the Authorization value never is.
func AccessLogging(log logger.StyledLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)

			next.ServeHTTP(rec, r)

			fileOnly := context.WithValue(r.Context(), logger.DefaultDetailedCookie, true)
			log.GetUnderlying().InfoContext(fileOnly, "Access log",
				"request_id", GetRequestID(r.Context()),
				"remote_addr", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.Path,
				"route", routePattern(r),
				"query", r.URL.RawQuery,
				"tenant_id", r.Header.Get(constants.HeaderTenantID),
				"has_authorization", r.Header.Get(constants.HeaderAuthorization) != "",
				"status", rec.status,
				"request_bytes", requestBytes(r),
				"response_bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
				"content_type", r.Header.Get(constants.HeaderContentType),
				"accept", r.Header.Get(constants.HeaderAccept))
		})
	}
}

// routePattern is the chi pattern the request matched, once routing has run
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// FormatBytes renders a byte count in binary units, e.g. 1.5KiB
func FormatBytes(n int64) string {
	return units.BytesSize(float64(n))
}
