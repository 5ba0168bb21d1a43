package ports

import (
	"context"
	"net/http"
)

// UpstreamRequest is the fully assembled outbound call
type UpstreamRequest struct {
	Header    http.Header
	Method    string
	URL       string
	RequestID string
	Body      []byte
}

// UpstreamResponse is what we relay back to the caller untouched
type UpstreamResponse struct {
	ContentType string
	Body        []byte
	StatusCode  int
}

// Forwarder performs the single outbound call for a request
type Forwarder interface {
	Forward(ctx context.Context, req *UpstreamRequest) (*UpstreamResponse, error)
}
