package middleware

import (
	"context"
	"net/http"

	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/util"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID reuses the caller's X-Request-ID when it looks sane, otherwise
// mints one. Either way it is echoed on the response before the handler runs,
// so rejections and 502s carry it too.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := util.RequestIDFrom(r, constants.HeaderXRequestID)
		w.Header().Set(constants.HeaderXRequestID, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID is empty when RequestID did not run
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}
