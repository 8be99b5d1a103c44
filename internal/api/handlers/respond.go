package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps each domain error kind to its one transport status.
// APIError is checked first: it may wrap a sentinel from a failed
// aggregation branch, and those surface as internal errors, never as the
// branch's own kind.
func respondError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		log.Error().Err(err).Msg("unexpected downstream failure")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	case errors.Is(err, domain.ErrResourceNotFound):
		http.Error(w, "Resource does not exist", http.StatusNotFound)
	case errors.Is(err, domain.ErrUnprocessableEntity):
		http.Error(w, "Required input is missing", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrAuthenticationFailed), errors.Is(err, domain.ErrTokenInvalid):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrAggregationTimeout):
		http.Error(w, "Timed out retrieving downstream data", http.StatusGatewayTimeout)
	default:
		log.Error().Err(err).Msg("unhandled error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
