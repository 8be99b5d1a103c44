package domain

import (
	"errors"
	"fmt"
)

// Expected failure kinds. Each maps to exactly one transport status in the
// API layer, so callers can rely on errors.Is at every boundary.
var (
	ErrResourceNotFound     = errors.New("resource does not exist")
	ErrUnprocessableEntity  = errors.New("required input is missing")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrAggregationTimeout   = errors.New("aggregation timed out")
)

// APIError wraps an unexpected downstream failure, keeping the original
// cause for diagnostics.
type APIError struct {
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
