package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// Error is the JSON error envelope returned by the API.
type Error struct {
	Code    string
	Message string
	Status  int
}

// NewError constructs an Error, defaulting the status to 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{Code: code, Message: sanitize(message, 512), Status: status}
}

// WriteError writes err as JSON, tagging it with the request ID when present.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	payload := map[string]any{
		"error":   err.Code,
		"message": err.Message,
		"status":  err.Status,
	}
	if id := middleware.GetReqID(ctx); id != "" {
		payload["request_id"] = id
	}
	writeJSON(w, err.Status, payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sanitize(value string, limit int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
