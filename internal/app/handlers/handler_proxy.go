package handlers

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/fraudknight/hsproxy/internal/adapter/query"
	"github.com/fraudknight/hsproxy/internal/app/middleware"
	"github.com/fraudknight/hsproxy/internal/core/constants"
	"github.com/fraudknight/hsproxy/internal/core/domain"
	"github.com/fraudknight/hsproxy/internal/core/ports"
	"github.com/fraudknight/hsproxy/internal/logger"
)

const (
	errMissingAuthorization = "Missing Authorization header"
	errMissingTenant        = "Missing x-tenant-id header"
	errInvalidJSONBody      = "Invalid JSON body"
	errBodyTooLarge         = "Request body too large"
	errInternal             = "Internal server error"

	rejectMissingAuthorization = "missing_authorization"
	rejectMissingTenant        = "missing_tenant"
	rejectInvalidBody          = "invalid_body"
	rejectBodyTooLarge         = "body_too_large"
	rejectBadUpstreamURL       = "bad_upstream_url"
)

var (
	errBodyLimit   = errors.New("request body exceeds limit")
	errInvalidJSON = errors.New("request body is not valid JSON")
)

// routeSpec describes one forwarded route: where it goes upstream and how the
// caller's query is rewritten on the way
type routeSpec struct {
	family domain.RouteFamily
	rules  query.Rules

	// resolve builds the upstream URL, including any base query, from the
	// inbound request's path params
	resolve func(r *http.Request) (*url.URL, error)

	// filter runs after the merge and may rewrite merged in place
	filter func(r *http.Request, incoming, merged *query.Params)

	failureMessage string

	// tenantDefault is used when the caller sends no x-tenant-id. nil means
	// the header is required.
	tenantDefault func() string
}

// proxyRoute runs the shared pipeline: validate headers, resolve, merge,
// filter, forward and relay
func (a *Application) proxyRoute(spec routeSpec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetRequestID(r.Context())
		log := a.logger.WithRequestID(requestID)

		authorization := r.Header.Get(constants.HeaderAuthorization)
		if authorization == "" {
			a.reject(w, r, spec.family, start, http.StatusBadRequest, errMissingAuthorization, rejectMissingAuthorization)
			return
		}

		tenantID := r.Header.Get(constants.HeaderTenantID)
		if tenantID == "" && spec.tenantDefault != nil {
			tenantID = spec.tenantDefault()
		}
		if tenantID == "" {
			a.reject(w, r, spec.family, start, http.StatusBadRequest, errMissingTenant, rejectMissingTenant)
			return
		}

		base, err := spec.resolve(r)
		if err != nil {
			log.Error("Failed to build upstream URL", "route", spec.family, "path", r.URL.Path, "error", err)
			a.reject(w, r, spec.family, start, http.StatusInternalServerError, errInternal, rejectBadUpstreamURL)
			return
		}

		incoming := query.ParseParams(r.URL.RawQuery)
		merged := spec.rules.Merge(base, incoming)
		if spec.filter != nil {
			spec.filter(r, incoming, merged)
		}

		target := *base
		target.RawQuery = merged.Encode()
		target.ForceQuery = false

		header := http.Header{}
		header.Set(constants.HeaderAuthorization, authorization)
		header.Set(constants.HeaderTenantID, tenantID)

		var body []byte
		if r.Method != http.MethodGet {
			var contentType string
			body, contentType, err = a.readBody(r)
			switch {
			case errors.Is(err, errBodyLimit):
				log.Warn("Request rejected: body size exceeded",
					"route", spec.family,
					"path", r.URL.Path,
					"limit", middleware.FormatBytes(a.sizeLimiter.Limit()))
				a.reject(w, r, spec.family, start, http.StatusRequestEntityTooLarge, errBodyTooLarge, rejectBodyTooLarge)
				return
			case errors.Is(err, errInvalidJSON):
				a.reject(w, r, spec.family, start, http.StatusBadRequest, errInvalidJSONBody, rejectInvalidBody)
				return
			case err != nil:
				log.Warn("Failed to read request body", "route", spec.family, "error", err)
				a.reject(w, r, spec.family, start, http.StatusBadRequest, errInvalidJSONBody, rejectInvalidBody)
				return
			}
			if contentType != "" {
				header.Set(constants.HeaderContentType, contentType)
			}
		}

		upstreamStart := time.Now()
		resp, err := a.forwarder.Forward(r.Context(), &ports.UpstreamRequest{
			Method:    r.Method,
			URL:       target.String(),
			Header:    header,
			Body:      body,
			RequestID: requestID,
		})
		if err != nil {
			log.ErrorWithUpstream(spec.failureMessage, target.Host+target.Path,
				"route", spec.family,
				"method", r.Method,
				"path", r.URL.Path,
				"error", err)
			a.statsCollector.RecordOutcome(spec.family, domain.OutcomeUpstreamFailure, time.Since(start))
			a.metrics.RecordRequest(spec.family, r.Method, http.StatusBadGateway, domain.OutcomeUpstreamFailure)
			middleware.WriteJSONError(w, http.StatusBadGateway, spec.failureMessage)
			return
		}
		a.metrics.RecordUpstreamLatency(spec.family, time.Since(upstreamStart))

		if resp.StatusCode >= http.StatusBadRequest {
			logUpstreamError(log, spec.family, &target, resp)
		}

		relay(w, resp)

		a.statsCollector.RecordOutcome(spec.family, domain.OutcomeRelayed, time.Since(start))
		a.metrics.RecordRequest(spec.family, r.Method, resp.StatusCode, domain.OutcomeRelayed)
	}
}

// relay writes the upstream response back verbatim. Without an upstream
// Content-Type we send none rather than letting net/http sniff one.
func relay(w http.ResponseWriter, resp *ports.UpstreamResponse) {
	if resp.ContentType != "" {
		w.Header().Set(constants.HeaderContentType, resp.ContentType)
	} else {
		w.Header()[constants.HeaderContentType] = nil
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// logUpstreamError notes a relayed 4xx/5xx. The terminal gets the status and
// the file also gets the upstream's own message and the outbound query.
func logUpstreamError(log logger.StyledLogger, family domain.RouteFamily, target *url.URL, resp *ports.UpstreamResponse) {
	summary := upstreamErrorSummary(resp.Body)
	if resp.StatusCode < http.StatusInternalServerError {
		log.Debug("Upstream rejected request", "route", family, "status", resp.StatusCode, "upstream_error", summary)
		return
	}
	log.WarnWithContext("Upstream returned an error", family.String(), logger.LogContext{
		UserArgs:     []any{"status", resp.StatusCode, "upstream", target.Host + target.Path},
		DetailedArgs: []any{"upstream_error", summary, "query", target.RawQuery},
	})
}

func (a *Application) reject(w http.ResponseWriter, r *http.Request, family domain.RouteFamily, start time.Time, status int, message, reason string) {
	a.logger.Debug("Request rejected",
		"request_id", middleware.GetRequestID(r.Context()),
		"route", family,
		"status", status,
		"reason", reason)
	a.statsCollector.RecordOutcome(family, domain.OutcomeRejected, time.Since(start))
	a.metrics.RecordRejection(family, reason)
	a.metrics.RecordRequest(family, r.Method, status, domain.OutcomeRejected)
	middleware.WriteJSONError(w, status, message)
}

// readBody returns the body to send upstream and its Content-Type. JSON is
// compacted; an untyped body that parses as JSON is sent as application/json.
// Anything else passes through unchanged.
func (a *Application) readBody(r *http.Request) ([]byte, string, error) {
	contentType := r.Header.Get(constants.HeaderContentType)
	if r.Body == nil || r.Body == http.NoBody {
		return nil, contentType, nil
	}

	buf := a.bodyBuffers.Get()
	defer a.bodyBuffers.Put(buf)
	buf.Reset()

	if _, err := io.Copy(buf, r.Body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", errBodyLimit
		}
		return nil, "", fmt.Errorf("reading request body: %w", err)
	}

	raw := buf.Bytes()
	if len(raw) == 0 {
		return nil, contentType, nil
	}

	switch {
	case contentType == "":
		if !jsoniter.Valid(raw) {
			return bytes.Clone(raw), "", nil
		}
		contentType = constants.ContentTypeJSON
	case isJSONMediaType(contentType):
		if !jsoniter.Valid(raw) {
			return nil, "", errInvalidJSON
		}
	default:
		return bytes.Clone(raw), contentType, nil
	}

	compacted := bytes.NewBuffer(make([]byte, 0, len(raw)))
	if err := stdjson.Compact(compacted, raw); err != nil {
		return nil, "", fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	return compacted.Bytes(), contentType, nil
}

func isJSONMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == constants.ContentTypeJSON || strings.HasSuffix(mediaType, "+json")
}
