package model

import (
	"errors"
	"net/http"
)

// errors text is used as the public code returned to clients
var (
	ErrRateLimitReached = errors.New("RATE_LIMIT_REACHED")
	ErrRateLimiter      = errors.New("RATE_LIMITER_ERROR")
	ErrUserNotFound     = errors.New("USER_NOT_FOUND")
	ErrInvalidData      = errors.New("INVALID_DATA_FOUND")
	ErrFetch            = errors.New("FETCH_ERROR")
	ErrInvalidQuery     = errors.New("INVALID_QUERY")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAPIError builds the response body and the http status for an error
func NewAPIError(errReason error) (int, APIError) {
	switch {
	case errors.Is(errReason, ErrRateLimitReached):
		return http.StatusTooManyRequests, APIError{
			Code:    ErrRateLimitReached.Error(),
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case errors.Is(errReason, ErrUserNotFound):
		return http.StatusNotFound, APIError{
			Code:    ErrUserNotFound.Error(),
			Message: "no github user found with this username",
		}

	case errors.Is(errReason, ErrInvalidQuery):
		return http.StatusBadRequest, APIError{
			Code:    ErrInvalidQuery.Error(),
			Message: "username query param required, limit must be between 0 and 100",
		}
	}

	for _, internal := range []error{ErrRateLimiter, ErrInvalidData, ErrFetch} {
		if errors.Is(errReason, internal) {
			return http.StatusInternalServerError, APIError{
				Code:    internal.Error(),
				Message: "internal server error. contact our support with the reason code for assistance",
			}
		}
	}

	return http.StatusInternalServerError, APIError{
		Code:    "GENERIC_ERROR",
		Message: "internal server error. contact our support with the reason code for assistance",
	}
}
