package handlers

import (
	"net/http"

	"github.com/fraudknight/hsproxy/internal/adapter/query"
	"github.com/fraudknight/hsproxy/internal/core/domain"
)

const errClientsForwarding = "Failed to fetch clients data"

var clientsResource = literal("haystack-clients")

func (a *Application) clientsHandler(segments ...segment) http.HandlerFunc {
	return a.proxyRoute(routeSpec{
		family:         domain.RouteFamilyClients,
		rules:          query.Rules{Policy: query.DedupAppend},
		resolve:        resolver(a.devBaseURL, append([]segment{clientsResource}, segments...)...),
		failureMessage: errClientsForwarding,
	})
}
