package handlers

import (
	"github.com/tidwall/gjson"
)

// upstreamErrorPaths are tried in order against an upstream error body
var upstreamErrorPaths = []string{"message", "error.message", "error", "detail", "title"}

// upstreamErrorSummary pulls a human-readable message out of an upstream
// error body for logging. The body itself is relayed untouched.
func upstreamErrorSummary(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range upstreamErrorPaths {
		if result := gjson.GetBytes(body, path); result.Type == gjson.String && result.Str != "" {
			return result.Str
		}
	}
	return ""
}
