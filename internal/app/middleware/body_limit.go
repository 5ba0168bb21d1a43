package middleware

import (
	"net/http"

	"github.com/fraudknight/hsproxy/internal/config"
)

// RequestSizeLimiter caps inbound bodies on proxy routes. It only arms the
// body; the handler reports the 413 once its header checks have passed.
type RequestSizeLimiter struct {
	maxBodySize int64
}

func NewRequestSizeLimiter(limits config.ServerRequestLimits) *RequestSizeLimiter {
	return &RequestSizeLimiter{maxBodySize: limits.MaxBodySize}
}

// Middleware wraps the body so reading past the limit fails with
// *http.MaxBytesError, whether or not Content-Length was declared
func (rsl *RequestSizeLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rsl.maxBodySize > 0 && r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, rsl.maxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

func (rsl *RequestSizeLimiter) Limit() int64 {
	return rsl.maxBodySize
}
