package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrWalletAlreadyAssigned is returned when a wallet address is already set.
	// Addresses are write-once: the first assignment wins.
	ErrWalletAlreadyAssigned = errors.New("wallet address already assigned")
	// ErrGoogleTokenInvalid is returned when Google rejects or cannot resolve a token.
	ErrGoogleTokenInvalid = errors.New("invalid Google access token")
	// ErrTokenInvalid is returned when a session token fails signature verification.
	ErrTokenInvalid = errors.New("invalid authentication token")
	// ErrTokenExpired is returned when a session token is past its expiry.
	ErrTokenExpired = errors.New("authentication token expired")
	// ErrTokenMalformed is returned when a session token cannot be parsed.
	ErrTokenMalformed = errors.New("malformed authentication token")
	// ErrNotAnImage is returned when an upload cannot be decoded as an image.
	ErrNotAnImage = errors.New("file must be an image")
)

// ErrorBody is the inner payload of every error response.
type ErrorBody struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Type    string   `json:"type"`
	Details []string `json:"details"`
}

// ErrorResponse is the envelope returned for all failures.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds the standard error envelope.
func NewErrorResponse(code int, message, errType string, details ...string) ErrorResponse {
	if details == nil {
		details = []string{}
	}
	return ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Type:    errType,
		Details: details,
	}}
}

// HTTPError represents an HTTP error with status code and taxonomy type.
type HTTPError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, errType string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Type:       errType,
	}
}

// ToErrorResponse converts an HTTPError to the response envelope.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return NewErrorResponse(e.StatusCode, e.Message, e.Type)
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "not_found")
	case errors.Is(err, ErrGoogleTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "authentication_error")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "expired_token")
	case errors.Is(err, ErrTokenMalformed):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "malformed_token")
	case errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "invalid_token")
	case errors.Is(err, ErrWalletAlreadyAssigned):
		return NewHTTPError(http.StatusConflict, err.Error(), "conflict")
	case errors.Is(err, ErrNotAnImage):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "bad_request")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "internal_error")
	}
}
