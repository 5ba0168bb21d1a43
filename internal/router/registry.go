// Package router keeps the table of mounted routes so they can be printed at
// startup and wired onto chi in registration order.
package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pterm/pterm"

	"github.com/fraudknight/hsproxy/internal/core/domain"
	"github.com/fraudknight/hsproxy/internal/logger"
)

type RouteInfo struct {
	Handler     http.HandlerFunc
	Path        string
	Description string
	Method      string
	Family      domain.RouteFamily
	IsProxy     bool
}

// RouteRegistry holds routes in registration order. Registering the same
// method and path again replaces the entry but keeps its position.
type RouteRegistry struct {
	logger logger.StyledLogger
	index  map[string]int
	routes []RouteInfo
}

func NewRouteRegistry(logger logger.StyledLogger) *RouteRegistry {
	return &RouteRegistry{
		logger: logger,
		index:  make(map[string]int),
	}
}

// Register adds an internal GET route
func (r *RouteRegistry) Register(path string, handler http.HandlerFunc, description string) {
	r.add(RouteInfo{Path: path, Handler: handler, Description: description, Method: http.MethodGet})
}

// RegisterProxyRoute adds a forwarding route. family labels it in the
// startup table.
func (r *RouteRegistry) RegisterProxyRoute(family domain.RouteFamily, path string, handler http.HandlerFunc, description, method string) {
	r.add(RouteInfo{
		Path:        path,
		Handler:     handler,
		Description: description,
		Method:      method,
		Family:      family,
		IsProxy:     true,
	})
}

func (r *RouteRegistry) add(info RouteInfo) {
	key := info.Method + " " + info.Path
	if i, ok := r.index[key]; ok {
		r.routes[i] = info
		return
	}
	r.index[key] = len(r.routes)
	r.routes = append(r.routes, info)
}

// Routes returns a copy of the registered routes in order
func (r *RouteRegistry) Routes() []RouteInfo {
	return append([]RouteInfo(nil), r.routes...)
}

// WireUp mounts every route on mux. proxyMiddleware wraps proxy routes only,
// outermost first.
func (r *RouteRegistry) WireUp(mux chi.Router, proxyMiddleware ...func(http.Handler) http.Handler) {
	proxyChain := chi.Chain(proxyMiddleware...)
	for _, info := range r.routes {
		if info.IsProxy {
			mux.Method(info.Method, info.Path, proxyChain.Handler(info.Handler))
			continue
		}
		mux.Method(info.Method, info.Path, info.Handler)
	}
	r.printTable()
}

func (r *RouteRegistry) printTable() {
	if len(r.routes) == 0 {
		return
	}

	rows := pterm.TableData{{"ROUTE", "METHOD", "FAMILY", "DESCRIPTION"}}
	for _, info := range r.routes {
		family := "-"
		if info.IsProxy {
			family = info.Family.String()
		}
		rows = append(rows, []string{info.Path, info.Method, family, info.Description})
	}

	r.logger.InfoWithCount("Registered web routes", len(r.routes))
	table, _ := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	fmt.Print(table)
}
