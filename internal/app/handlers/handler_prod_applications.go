package handlers

import (
	"net/http"
	"net/url"

	"github.com/fraudknight/hsproxy/internal/adapter/enum"
	"github.com/fraudknight/hsproxy/internal/adapter/query"
	"github.com/fraudknight/hsproxy/internal/app/middleware"
	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/core/domain"
)

// prodApplicationsHandler only lets page and size through untouched.
// mainStatus and sort are validated against their enum domains and anything
// else the caller sends is dropped.
func (a *Application) prodApplicationsHandler() http.HandlerFunc {
	resolve := resolver(a.prodBaseURL, applicationsResource)
	return a.proxyRoute(routeSpec{
		family: domain.RouteFamilyProdApplications,
		rules: query.Rules{
			Policy:    query.AllowList,
			AllowList: []string{constants.QueryPage, constants.QuerySize},
		},
		resolve: func(r *http.Request) (*url.URL, error) {
			base, err := resolve(r)
			if err != nil {
				return nil, err
			}
			q := query.ParseParams(base.RawQuery)
			q.Set(constants.QueryExcludeLiveProfile, "true")
			base.RawQuery = q.Encode()
			return base, nil
		},
		filter:         a.filterApplicationEnums,
		failureMessage: errApplicationsForwarding,
	})
}

func (a *Application) filterApplicationEnums(r *http.Request, incoming, merged *query.Params) {
	family := domain.RouteFamilyProdApplications

	valid, dropped := enum.Partition(enum.ApplicationStatuses, incoming.Values(constants.QueryMainStatus))
	for _, status := range valid {
		query.AppendUnique(merged, constants.QueryMainStatus, status)
	}
	a.recordDropped(r, family, constants.QueryMainStatus, dropped)

	sorts := incoming.Values(constants.QuerySort)
	sort, _ := enum.SelectSort(sorts)
	merged.Set(constants.QuerySort, sort)

	var droppedSorts []string
	for _, s := range sorts {
		if !enum.IsMember(enum.ApplicationSorts, enum.NormaliseSort(s)) {
			droppedSorts = append(droppedSorts, s)
		}
	}
	a.recordDropped(r, family, constants.QuerySort, droppedSorts)
}

func (a *Application) recordDropped(r *http.Request, family domain.RouteFamily, param string, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	for range dropped {
		a.metrics.RecordFilteredValue(family, param)
	}
	a.logger.Debug("Dropped invalid query values",
		"request_id", middleware.GetRequestID(r.Context()),
		"route", family,
		"param", param,
		"values", dropped)
}
