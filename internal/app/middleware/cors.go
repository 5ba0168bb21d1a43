package middleware

import (
	"net/http"

	"github.com/fraudknight/hsproxy/internal/config"
	"github.com/fraudknight/hsproxy/internal/core/constants"
)

// CORS stamps the cross-origin headers on every response and answers
// preflight requests with an empty 204 before routing
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(constants.HeaderAccessControlAllowOrigin, cfg.AllowOrigin)
			h.Set(constants.HeaderAccessControlAllowMethods, cfg.AllowMethods)

			allowHeaders := r.Header.Get(constants.HeaderAccessControlRequestHeaders)
			if allowHeaders == "" {
				allowHeaders = cfg.DefaultHeaders
			}
			h.Set(constants.HeaderAccessControlAllowHeaders, allowHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
