package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamErrorSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"not json", "Bad Gateway", ""},
		{"message", `{"message":"tenant not found","status":404}`, "tenant not found"},
		{"nested", `{"error":{"code":7,"message":"locked"}}`, "locked"},
		{"plain error", `{"error":"Unauthorized"}`, "Unauthorized"},
		{"problem json", `{"title":"Conflict","detail":"note was edited"}`, "note was edited"},
		{"non string", `{"message":42}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, upstreamErrorSummary([]byte(tt.body)))
		})
	}
}
