package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTaskNotFound is returned when a task is missing or owned by another user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrCategoryNotFound is returned when a category is missing or owned by another user.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProfileNotFound is returned when a profile row is missing.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrTitleRequired is returned when a task is submitted without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrNameRequired is returned when a category is submitted without a name.
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidPriority is returned for priority values outside L/M/H.
	ErrInvalidPriority = errors.New("invalid priority")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Owner-scoped lookups that
// miss surface as not-found rather than forbidden so that record existence is
// never leaked to other users.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrTaskNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case ErrCategoryNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case ErrProfileNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case ErrTitleRequired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TITLE_REQUIRED")
	case ErrNameRequired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NAME_REQUIRED")
	case ErrInvalidPriority:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRIORITY")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
