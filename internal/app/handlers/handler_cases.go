package handlers

import (
	"net/http"

	"github.com/fraudknight/hsproxy/internal/adapter/query"
	"github.com/fraudknight/hsproxy/internal/core/domain"
)

const errCasesForwarding = "Failed to fetch cases data"

var casesResource = literal("cases")

// casesHandler always sends the configured defaults; any key the caller
// supplies replaces that default entirely
func (a *Application) casesHandler() http.HandlerFunc {
	cases := a.Config.Routes.Cases
	defaults := make([]query.Pair, 0, len(cases.Defaults))
	for _, d := range cases.Defaults {
		defaults = append(defaults, query.Pair{Key: d.Key, Value: d.Value})
	}

	return a.proxyRoute(routeSpec{
		family: domain.RouteFamilyCases,
		rules: query.Rules{
			Policy:   query.Override,
			Defaults: defaults,
		},
		resolve:        resolver(a.devBaseURL, casesResource),
		failureMessage: errCasesForwarding,
		tenantDefault:  func() string { return cases.DefaultTenantID },
	})
}
