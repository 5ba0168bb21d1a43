package handlers

import (
	"net/http"
	"runtime"

	"github.com/fraudknight/hsproxy/internal/app/middleware"
	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/version"
	"github.com/fraudknight/hsproxy/pkg/container"
)

type VersionResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Build       BuildInfo         `json:"build"`
	API         APIInfo           `json:"api"`
	Links       map[string]string `json:"links"`
}

type BuildInfo struct {
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
	Containerised bool   `json:"containerised"`
}

type APIInfo struct {
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (a *Application) versionHandler(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"health":  constants.DefaultHealthCheckEndpoint,
		"status":  constants.DefaultStatusEndpoint,
		"process": constants.DefaultProcessEndpoint,
		"version": constants.DefaultVersionEndpoint,
	}
	if a.metricsHandler != nil {
		endpoints["metrics"] = constants.DefaultMetricsEndpoint
	}

	middleware.WriteJSON(w, http.StatusOK, VersionResponse{
		Name:        version.Name,
		Version:     version.Version,
		Description: version.Description,
		Build: BuildInfo{
			Commit:        version.Commit,
			Date:          version.Date,
			GoVersion:     version.Runtime,
			Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			Containerised: container.IsContainerised(),
		},
		API: APIInfo{
			Version:   "v1",
			Endpoints: endpoints,
		},
		Links: map[string]string{
			"homepage": version.HomeURI,
			"releases": version.GithubLatestUri,
		},
	})
}
