package handlers

import (
	"net/http"

	"github.com/fraudknight/hsproxy/internal/adapter/query"
	"github.com/fraudknight/hsproxy/internal/core/domain"
)

const errUsersForwarding = "Failed to fetch users data"

var usersResource = literal("users")

func (a *Application) usersHandler(segments ...segment) http.HandlerFunc {
	return a.proxyRoute(routeSpec{
		family:         domain.RouteFamilyUsers,
		rules:          query.Rules{Policy: query.DedupAppend},
		resolve:        resolver(a.devBaseURL, append([]segment{usersResource}, segments...)...),
		failureMessage: errUsersForwarding,
	})
}
