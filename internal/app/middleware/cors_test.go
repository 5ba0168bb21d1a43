package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fraudknight/hsproxy/internal/config"
)

func TestCORS(t *testing.T) {
	cfg := config.DefaultConfig().CORS

	var reached bool
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight short circuits", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/anything", nil)
		req.Header.Set("Access-Control-Request-Headers", "authorization,x-custom")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.False(t, reached)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "authorization,x-custom", rr.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("default headers", func(t *testing.T) {
		reached = false
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil))

		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Authorization,x-tenant-id,Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "GET,PUT,OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	})
}
