package httpdto

import (
	"errors"
	"time"

	seau_errors "sea-u/pkg/errors"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// ErrorCode is the machine readable code paired with an error response.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, seau_errors.ErrInvalidInput):
		return "INVALID_REQUEST"
	case errors.Is(err, seau_errors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, seau_errors.ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, seau_errors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, seau_errors.ErrAlreadyExists), errors.Is(err, seau_errors.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, seau_errors.ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, seau_errors.ErrServiceUnavailable):
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
