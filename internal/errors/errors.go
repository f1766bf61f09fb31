package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrImageNotFound is returned when an image id does not resolve.
	ErrImageNotFound = errors.New("image not found")
	// ErrNoImages is returned when a stat needs images and none exist.
	ErrNoImages = errors.New("no images found")
	// ErrMissingUserID is returned when a required user id is absent.
	ErrMissingUserID = errors.New("user id is required")
	// ErrMissingImageID is returned when a required image id is absent.
	ErrMissingImageID = errors.New("image id is required")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Unexpected store errors
// surface their message; this is an internal admin tool, not a public API.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrImageNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "IMAGE_NOT_FOUND")
	case errors.Is(err, ErrNoImages):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NO_IMAGES")
	case errors.Is(err, ErrMissingUserID), errors.Is(err, ErrMissingImageID):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_ID")
	default:
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "STORE_ERROR")
	}
}
