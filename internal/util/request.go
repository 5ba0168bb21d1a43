package util

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// GenerateRequestID returns a fresh request id for correlating logs with responses
func GenerateRequestID() string {
	return uuid.NewString()
}

// RequestIDFrom returns the caller supplied request id, or a new one when the
// header is missing or is obviously junk
func RequestIDFrom(r *http.Request, header string) string {
	id := strings.TrimSpace(r.Header.Get(header))
	if id == "" || len(id) > 128 {
		return GenerateRequestID()
	}
	return id
}
