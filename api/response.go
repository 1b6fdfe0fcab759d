package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/crud"
	"github.com/lodestone-ai/lodestone/internal/document"
	"github.com/lodestone-ai/lodestone/internal/rag"
	"github.com/lodestone-ai/lodestone/internal/storage"
)

// writeJSON writes a JSON response with the given status code.
// If encoding fails after WriteHeader the status is already on the wire;
// the error is only logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// apiError is the OpenAI-style error body: {"error": {...}}.
type apiError struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// writeError writes an OpenAI-style JSON error response.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, apiError{Error: errorDetail{Message: message, Type: errType}})
}

// writeServiceError maps service-layer sentinels onto HTTP statuses:
// already-indexed and unsupported formats are client errors, missing
// records are 404, everything else is a 500 with a generic body.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, rag.ErrAlreadyIndexed):
		writeError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
	case errors.Is(err, document.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
	case errors.Is(err, rag.ErrFileNotFound),
		errors.Is(err, crud.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "invalid_request_error", err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}

// decodeJSON decodes the request body into v, reporting a 400 on failure.
// Returns whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body")
		return false
	}
	return true
}

// requireTenant extracts the tenant set by the auth middleware. A missing
// tenant means the route was registered outside the protected prefix.
func requireTenant(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := tenantFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_request_error", "missing tenant")
		return uuid.Nil, false
	}
	return id, true
}
