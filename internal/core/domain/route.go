package domain

// RouteFamily groups the local routes that front one upstream resource
type RouteFamily string

const (
	RouteFamilyUsers            RouteFamily = "users"
	RouteFamilyClients          RouteFamily = "clients"
	RouteFamilyApplications     RouteFamily = "applications"
	RouteFamilyProdApplications RouteFamily = "prod-applications"
	RouteFamilyCases            RouteFamily = "cases"
)

func (f RouteFamily) String() string {
	return string(f)
}

// RouteFamilies lists every family in registration order
var RouteFamilies = []RouteFamily{
	RouteFamilyUsers,
	RouteFamilyClients,
	RouteFamilyApplications,
	RouteFamilyProdApplications,
	RouteFamilyCases,
}

// Outcome is the terminal state of one pass through the forwarding pipeline
type Outcome string

const (
	OutcomeRelayed         Outcome = "relayed"
	OutcomeRejected        Outcome = "rejected"
	OutcomeUpstreamFailure Outcome = "upstream_failure"
)
