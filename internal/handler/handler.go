// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linkboard/linkboard/internal/form"
	"github.com/linkboard/linkboard/internal/handler/dto"
	"github.com/linkboard/linkboard/internal/store"
)

// Handler wraps application-level endpoints that need no dependencies.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello is a simple hello endpoint for testing.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Hello from Linkboard!",
		"version": "0.1.0",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "resource not found",
	}
	writeJSON(w, http.StatusNotFound, response)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "method not allowed",
	}
	writeJSON(w, http.StatusMethodNotAllowed, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeValidationError writes a 422 with the failing fields.
func writeValidationError(w http.ResponseWriter, verr *form.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_FAILED",
		Fields: verr.Fields,
	})
}

// writeCommonError maps errors shared by all entity endpoints. Returns
// false when the error is not one of them, so the caller can apply its
// entity-specific mapping.
func writeCommonError(w http.ResponseWriter, err error) bool {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, form.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, "SUBMIT_IN_FLIGHT", "A previous submit is still in progress")
	case errors.Is(err, store.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing session")
	default:
		return false
	}
	return true
}
