// Package httpx has the JSON request/response helpers shared by handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"sebodigital/internal/domain"
)

type errorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps domain error kinds to status codes so the UI can render
// a specific message per kind.
func WriteError(w http.ResponseWriter, err error) {
	var (
		notFound     *domain.NotFoundError
		validation   *domain.ValidationError
		insufficient *domain.InsufficientStockError
		transition   *domain.InvalidTransitionError
	)

	switch {
	case errors.As(err, &notFound):
		WriteJSON(w, http.StatusNotFound, errorPayload{Error: "not_found", Details: err.Error()})
	case errors.As(err, &validation):
		WriteJSON(w, http.StatusUnprocessableEntity, errorPayload{Error: "validation_failed", Details: err.Error()})
	case errors.As(err, &insufficient):
		WriteJSON(w, http.StatusConflict, errorPayload{Error: "insufficient_stock", Details: err.Error()})
	case errors.As(err, &transition):
		WriteJSON(w, http.StatusConflict, errorPayload{Error: "invalid_transition", Details: err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		WriteJSON(w, http.StatusInternalServerError, errorPayload{Error: "internal_error"})
	}
}

// Decode reads the request body as JSON into v.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}
	return nil
}
