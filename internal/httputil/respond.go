// Package httputil holds the JSON response helpers shared by handlers and
// middleware.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the error body every endpoint returns.
type ErrorResponse struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

// WriteJSON writes v as a JSON body with the given status. A nil v writes the
// status line only.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes the standard error body.
func WriteError(w http.ResponseWriter, status int, errorType, message string) {
	WriteJSON(w, status, ErrorResponse{ErrorType: errorType, Message: message})
}
