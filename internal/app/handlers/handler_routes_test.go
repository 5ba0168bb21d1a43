package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudknight/hsproxy/internal/config"
)

func TestUpstreamRouting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		wantPath  string
		wantQuery string
	}{
		{"users list", "/api/v1/hs-users?page=1", "/users", "page=1"},
		{"user", "/api/v1/hs-users/u-1", "/users/u-1", ""},
		{"clients list", "/api/v1/hs-clients?name=acme&name=acme", "/haystack-clients", "name=acme"},
		{"client", "/api/v1/hs-clients/42", "/haystack-clients/42", ""},
		{"application", "/api/v1/hs-applications/7", "/applications/7", ""},
		{"application notes", "/api/v1/hs-applications/7/notes?size=5", "/applications/7/notes", "size=5"},
		{"application note", "/api/v1/hs-applications/7/notes/9", "/applications/7/notes/9", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			upstream := newFakeUpstream(t, http.StatusOK, "application/json", `{}`)
			_, handler := newTestApp(t, upstream, nil)

			rr := serve(handler, authorised(httptest.NewRequest(http.MethodGet, tt.path, nil)))
			require.Equal(t, http.StatusOK, rr.Code)

			call := upstream.lastCall(t)
			assert.Equal(t, testGatewayPath+tt.wantPath, call.Path)
			assert.Equal(t, tt.wantQuery, call.RawQuery)
		})
	}
}

func TestApplicationsList_SeedsClientIDs(t *testing.T) {
	t.Parallel()

	upstream := newFakeUpstream(t, http.StatusOK, "application/json", `[]`)
	_, handler := newTestApp(t, upstream, nil)

	rr := serve(handler, authorised(httptest.NewRequest(http.MethodGet,
		"/api/v1/hs-applications?page=2&haystackClientId=a&haystackClientId=b&haystackClientId=a", nil)))
	require.Equal(t, http.StatusOK, rr.Code)

	call := upstream.lastCall(t)
	assert.Equal(t, testGatewayPath+"/applications", call.Path)
	assert.Equal(t, "haystackClientId=a&haystackClientId=b&page=2", call.RawQuery)
}

func TestProdApplications_FiltersQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantQuery string
	}{
		{
			name:      "no query gets default sort",
			query:     "",
			wantQuery: "excludeLiveProfile=true&sort=createdDate%2Casc",
		},
		{
			name:      "allow-listed and valid enum values",
			query:     "?page=0&size=10&mainStatus=LOCKED&mainStatus=OPEN&sort=modifiedDate,desc",
			wantQuery: "excludeLiveProfile=true&page=0&size=10&mainStatus=LOCKED&mainStatus=OPEN&sort=modifiedDate%2Cdesc",
		},
		{
			name:      "unknown params and invalid statuses are dropped",
			query:     "?foo=bar&mainStatus=BOGUS&mainStatus=COMPLETED&mainStatus=COMPLETED&excludeLiveProfile=false",
			wantQuery: "excludeLiveProfile=true&mainStatus=COMPLETED&sort=createdDate%2Casc",
		},
		{
			name:      "double encoded comma and padding",
			query:     "?sort=%20createdDate%252Cdesc%20",
			wantQuery: "excludeLiveProfile=true&sort=createdDate%2Cdesc",
		},
		{
			name:      "last valid sort wins",
			query:     "?sort=modifiedDate,asc&sort=nope&sort=createdDate,desc",
			wantQuery: "excludeLiveProfile=true&sort=createdDate%2Cdesc",
		},
		{
			name:      "only invalid sorts fall back",
			query:     "?sort=name,asc",
			wantQuery: "excludeLiveProfile=true&sort=createdDate%2Casc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			upstream := newFakeUpstream(t, http.StatusOK, "application/json", `[]`)
			_, handler := newTestApp(t, nil, func(cfg *config.Config) {
				cfg.Upstream.DevBaseURL = "http://127.0.0.1:1/dev"
				cfg.Upstream.ProdBaseURL = upstream.baseURL()
			})

			rr := serve(handler, authorised(httptest.NewRequest(http.MethodGet, "/api/v1/prod-hs-applications"+tt.query, nil)))
			require.Equal(t, http.StatusOK, rr.Code)

			call := upstream.lastCall(t)
			assert.Equal(t, testGatewayPath+"/applications", call.Path)
			assert.Equal(t, tt.wantQuery, call.RawQuery)
		})
	}
}

func TestCases_OverridesDefaults(t *testing.T) {
	t.Parallel()

	const defaults = "page=0&tenantId=3&size=100&sort=createdDateTime%2Cdesc&caseStatus=OPEN&caseType=APPLICATION&assigneeId=3e5335d6-0edc-4db4-a8a9-f03dc81dc0a9"

	t.Run("defaults only", func(t *testing.T) {
		t.Parallel()

		upstream := newFakeUpstream(t, http.StatusOK, "application/json", `[]`)
		_, handler := newTestApp(t, upstream, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
		req.Header.Set("Authorization", "Bearer token")

		rr := serve(handler, req)
		require.Equal(t, http.StatusOK, rr.Code)

		call := upstream.lastCall(t)
		assert.Equal(t, testGatewayPath+"/cases", call.Path)
		assert.Equal(t, defaults, call.RawQuery)
		assert.Equal(t, "3", call.Header.Get("x-tenant-id"))
	})

	t.Run("caller keys replace defaults", func(t *testing.T) {
		t.Parallel()

		upstream := newFakeUpstream(t, http.StatusOK, "application/json", `[]`)
		_, handler := newTestApp(t, upstream, nil)

		rr := serve(handler, authorised(httptest.NewRequest(http.MethodGet,
			"/api/v1/cases?caseStatus=CLOSED&caseStatus=OPEN&extra=1", nil)))
		require.Equal(t, http.StatusOK, rr.Code)

		call := upstream.lastCall(t)
		assert.Equal(t,
			"page=0&tenantId=3&size=100&sort=createdDateTime%2Cdesc&caseType=APPLICATION&assigneeId=3e5335d6-0edc-4db4-a8a9-f03dc81dc0a9&caseStatus=CLOSED&caseStatus=OPEN&extra=1",
			call.RawQuery)
		assert.Equal(t, "7", call.Header.Get("x-tenant-id"))
	})

	t.Run("configured defaults", func(t *testing.T) {
		t.Parallel()

		upstream := newFakeUpstream(t, http.StatusOK, "application/json", `[]`)
		_, handler := newTestApp(t, upstream, func(cfg *config.Config) {
			cfg.Routes.Cases.DefaultTenantID = "11"
			cfg.Routes.Cases.Defaults = []config.QueryDefault{{Key: "size", Value: "5"}}
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
		req.Header.Set("Authorization", "Bearer token")

		rr := serve(handler, req)
		require.Equal(t, http.StatusOK, rr.Code)

		call := upstream.lastCall(t)
		assert.Equal(t, "size=5", call.RawQuery)
		assert.Equal(t, "11", call.Header.Get("x-tenant-id"))
	})
}

func TestInternalEndpoints(t *testing.T) {
	t.Parallel()

	upstream := newFakeUpstream(t, http.StatusOK, "application/json", `[]`)
	_, handler := newTestApp(t, upstream, nil)

	// two relayed, one rejected
	serve(handler, authorised(httptest.NewRequest(http.MethodGet, "/api/v1/hs-users", nil)))
	serve(handler, httptest.NewRequest(http.MethodGet, "/api/v1/hs-users", nil))
	serve(handler, authorised(httptest.NewRequest(http.MethodGet, "/api/v1/prod-hs-applications?mainStatus=NOPE", nil)))

	t.Run("health", func(t *testing.T) {
		rr := serve(handler, httptest.NewRequest(http.MethodGet, "/internal/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
	})

	t.Run("status", func(t *testing.T) {
		rr := serve(handler, httptest.NewRequest(http.MethodGet, "/internal/status", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var status StatusResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		assert.Equal(t, int64(3), status.TotalRequests)
		require.Len(t, status.Routes, 5)

		users := status.Routes[0]
		assert.Equal(t, "users", users.Family)
		assert.Equal(t, int64(2), users.TotalRequests)
		assert.Equal(t, int64(1), users.Relayed)
		assert.Equal(t, int64(1), users.Rejected)
		assert.Equal(t, "100%", users.SuccessRate)

		for _, route := range status.Routes[2:] {
			assert.Zero(t, route.TotalRequests)
			assert.Equal(t, "N/A", route.SuccessRate)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		rr := serve(handler, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		body := rr.Body.String()
		assert.Contains(t, body, `hsproxy_requests_total{method="GET",outcome="relayed",route="users",status="200"} 1`)
		assert.Contains(t, body, `hsproxy_rejections_total{reason="missing_authorization",route="users"} 1`)
		assert.Contains(t, body, `hsproxy_filtered_values_total{param="mainStatus",route="prod-applications"} 1`)
	})

	t.Run("version", func(t *testing.T) {
		rr := serve(handler, httptest.NewRequest(http.MethodGet, "/version", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var v VersionResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
		assert.Equal(t, "hsproxy", v.Name)
		assert.NotEmpty(t, v.Build.GoVersion)
		assert.Equal(t, "/internal/metrics", v.API.Endpoints["metrics"])
	})

	t.Run("process", func(t *testing.T) {
		rr := serve(handler, httptest.NewRequest(http.MethodGet, "/internal/process", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Contains(rr.Body.String(), `"goroutines"`))
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := serve(handler, httptest.NewRequest(http.MethodGet, "/api/v1/nothing-here", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMetricsDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	log := testLogger()
	app, err := NewApplication(cfg, nil, nil, nil, nil, log)
	require.NoError(t, err)
	handler := app.Handler()

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStart_PortInUse(t *testing.T) {
	upstream := newFakeUpstream(t, http.StatusOK, "application/json", `{}`)
	first, _ := newTestApp(t, upstream, nil)
	require.NoError(t, first.Start())
	t.Cleanup(func() { _ = first.Stop(t.Context()) })

	_, portText, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portText)
	require.NoError(t, err)

	second, _ := newTestApp(t, upstream, func(cfg *config.Config) {
		cfg.Server.Port = port
	})
	err = second.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPortInUse)
}
