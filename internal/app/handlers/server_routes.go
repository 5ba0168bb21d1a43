package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fraudknight/hsproxy/internal/app/middleware"
	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/core/domain"
)

const (
	usersMount            = constants.DefaultAPIPathPrefix + constants.PathHSUsers
	clientsMount          = constants.DefaultAPIPathPrefix + constants.PathHSClients
	applicationsMount     = constants.DefaultAPIPathPrefix + constants.PathHSApplications
	prodApplicationsMount = constants.DefaultAPIPathPrefix + constants.PathProdHSApplications
	casesMount            = constants.DefaultAPIPathPrefix + constants.PathCases

	applicationNotePath = applicationsMount + "/{applicationId}/notes/{noteId}"
)

// Handler builds the full router. CORS runs ahead of routing so preflight
// requests never reach a route.
func (a *Application) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.StripSlashes)
	mux.Use(middleware.CORS(a.Config.CORS))
	mux.Use(middleware.RequestID)
	if a.Config.Server.RequestLogging {
		mux.Use(middleware.RequestLogging(a.logger))
	}
	mux.Use(middleware.AccessLogging(a.logger))

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSONError(w, http.StatusNotFound, "Not found")
	})

	a.registerRoutes()
	a.routeRegistry.WireUp(mux, a.sizeLimiter.Middleware)

	return mux
}

// registerRoutes sets up the complete HTTP routing table
func (a *Application) registerRoutes() {
	// internal endpoints first, they don't depend on the upstream
	a.routeRegistry.Register(constants.DefaultHealthCheckEndpoint, a.healthHandler, "Health check endpoint")
	a.routeRegistry.Register(constants.DefaultStatusEndpoint, a.statusHandler, "Route family status")
	a.routeRegistry.Register(constants.DefaultProcessEndpoint, a.processStatsHandler, "Process status")
	if a.metricsHandler != nil {
		a.routeRegistry.Register(constants.DefaultMetricsEndpoint, a.metricsHandler.ServeHTTP, "Prometheus metrics")
	}
	a.routeRegistry.Register(constants.DefaultVersionEndpoint, a.versionHandler, "hsproxy version information")

	get := http.MethodGet

	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyUsers, usersMount,
		a.usersHandler(), "List users", get)
	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyUsers, usersMount+"/{userId}",
		a.usersHandler(param("userId")), "Get user", get)

	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyClients, clientsMount,
		a.clientsHandler(), "List clients", get)
	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyClients, clientsMount+"/{clientId}",
		a.clientsHandler(param("clientId")), "Get client", get)

	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyApplications, applicationsMount,
		a.applicationsListHandler(), "List applications", get)
	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyApplications, applicationsMount+"/{applicationId}",
		a.applicationsHandler(errApplicationsForwarding, param("applicationId")), "Get application", get)
	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyApplications, applicationsMount+"/{applicationId}/notes",
		a.applicationsHandler(errApplicationsForwarding, param("applicationId"), notesResource), "List application notes", get)
	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyApplications, applicationNotePath,
		a.applicationsHandler(errApplicationsForwarding, param("applicationId"), notesResource, param("noteId")), "Get application note", get)
	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyApplications, applicationNotePath,
		a.applicationsHandler(errApplicationNoteForwarding, param("applicationId"), notesResource, param("noteId")), "Update application note", http.MethodPut)

	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyProdApplications, prodApplicationsMount,
		a.prodApplicationsHandler(), "List production applications", get)

	a.routeRegistry.RegisterProxyRoute(domain.RouteFamilyCases, casesMount,
		a.casesHandler(), "List cases", get)
}
