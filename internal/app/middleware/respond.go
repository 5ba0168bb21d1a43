package middleware

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/fraudknight/hsproxy/internal/core/constants"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as the JSON response body with status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONError writes {"error": message} with status
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorBody{Error: message})
}
