package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTaskNotFound is returned when a task is absent or owned by someone
	// else. The two cases are deliberately merged so callers cannot probe
	// for the existence of records they do not own.
	ErrTaskNotFound = errors.New("Task not found")
	// ErrUserNotFound is returned when a user lookup by email fails.
	ErrUserNotFound = errors.New("User not found")
	// ErrEmailTaken is returned when registering an already registered email.
	ErrEmailTaken = errors.New("User already exists")
	// ErrInvalidCredentials is returned on any login credential mismatch.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUnauthenticated is the single generic authentication failure.
	ErrUnauthenticated = errors.New("Please authenticate.")
	// ErrForbidden is returned when an authenticated caller lacks the
	// required role.
	ErrForbidden = errors.New("Access denied. Admin privileges required.")
	// ErrInvalidUpdates is returned when a partial update carries a field
	// outside the allow-list.
	ErrInvalidUpdates = errors.New("Invalid updates")
)

// FieldError is a per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries structured per-field messages for a 400 response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized is
// a store or backend failure and surfaces as a generic 500; detail stays in
// server-side logs only.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: "Validation failed", Fields: verr.Fields}
	}

	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrUserNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrInvalidUpdates):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, ErrForbidden):
		return &HTTPError{StatusCode: http.StatusForbidden, Message: err.Error()}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "Server error"}
	}
}
