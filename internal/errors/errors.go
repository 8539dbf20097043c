package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when the email is already registered
	// in the target role's table.
	ErrDuplicateEmail = errors.New("email is already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotFound is returned when an account lookup misses.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidResetToken covers malformed, tampered, expired and
	// already-consumed reset tokens with a single message.
	ErrInvalidResetToken = errors.New("invalid or expired token")
	// ErrMissingFields is returned when a required field is empty.
	ErrMissingFields = errors.New("required field missing")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// taxonomy is an infrastructure fault and surfaces generically.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ACCOUNT_NOT_FOUND")
	case errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RESET_TOKEN")
	case errors.Is(err, ErrMissingFields):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
