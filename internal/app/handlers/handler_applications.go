package handlers

import (
	"net/http"
	"net/url"

	"github.com/fraudknight/hsproxy/internal/adapter/query"
	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/core/domain"
)

const (
	errApplicationsForwarding    = "Failed to fetch applications data"
	errApplicationNoteForwarding = "Failed to update application note"
)

var (
	applicationsResource = literal("applications")
	notesResource        = literal("notes")
)

// applicationsListHandler copies each distinct haystackClientId into the base
// URL before the merge, so no (key, value) pair is ever sent twice
func (a *Application) applicationsListHandler() http.HandlerFunc {
	resolve := resolver(a.devBaseURL, applicationsResource)
	return a.proxyRoute(routeSpec{
		family: domain.RouteFamilyApplications,
		rules:  query.Rules{Policy: query.DedupAppend},
		resolve: func(r *http.Request) (*url.URL, error) {
			base, err := resolve(r)
			if err != nil {
				return nil, err
			}
			seeded := query.ParseParams(base.RawQuery)
			for _, id := range query.ParseParams(r.URL.RawQuery).Values(constants.QueryHaystackClientID) {
				query.AppendUnique(seeded, constants.QueryHaystackClientID, id)
			}
			base.RawQuery = seeded.Encode()
			return base, nil
		},
		failureMessage: errApplicationsForwarding,
	})
}

func (a *Application) applicationsHandler(failureMessage string, segments ...segment) http.HandlerFunc {
	return a.proxyRoute(routeSpec{
		family:         domain.RouteFamilyApplications,
		rules:          query.Rules{Policy: query.DedupAppend},
		resolve:        resolver(a.devBaseURL, append([]segment{applicationsResource}, segments...)...),
		failureMessage: failureMessage,
	})
}
