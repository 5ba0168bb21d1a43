package constants

const (
	DefaultHealthCheckEndpoint = "/internal/health"
	DefaultStatusEndpoint      = "/internal/status"
	DefaultMetricsEndpoint     = "/internal/metrics"
	DefaultProcessEndpoint     = "/internal/process"
	DefaultVersionEndpoint     = "/version"

	// all proxied route families live under this prefix
	DefaultAPIPathPrefix = "/api/v1"

	PathHSUsers            = "/hs-users"
	PathHSClients          = "/hs-clients"
	PathHSApplications     = "/hs-applications"
	PathProdHSApplications = "/prod-hs-applications"
	PathCases              = "/cases"
)
