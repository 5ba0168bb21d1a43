package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/fraudknight/hsproxy/internal/util"
)

// segment yields one upstream path segment for a request
type segment func(r *http.Request) string

func literal(s string) segment {
	return func(*http.Request) string { return s }
}

// param substitutes a chi URL param verbatim
func param(name string) segment {
	return func(r *http.Request) string { return chi.URLParam(r, name) }
}

// resolver joins baseURL with the request's segments
func resolver(baseURL func() string, segments ...segment) func(r *http.Request) (*url.URL, error) {
	return func(r *http.Request) (*url.URL, error) {
		parts := make([]string, len(segments))
		for i, seg := range segments {
			parts[i] = seg(r)
		}
		return util.JoinURL(baseURL(), parts...)
	}
}

func (a *Application) devBaseURL() string {
	return a.Config.Upstream.DevBaseURL
}

func (a *Application) prodBaseURL() string {
	return a.Config.Upstream.ProdBaseURL
}
