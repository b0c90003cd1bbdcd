package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// FieldError describes a single offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the application error carried from services to handlers.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation error carrying every failing field.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict creates a conflict error.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Unauthorized creates an authentication error.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// Forbidden creates an authorization error.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Server error", Err: err}
}

var (
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = NotFound("User not found")
	// ErrProjectNotFound is returned when a project id does not resolve.
	ErrProjectNotFound = NotFound("Project not found")
	// ErrPlanNotFound is returned when a pricing plan id does not resolve.
	ErrPlanNotFound = NotFound("Pricing plan not found")
	// ErrContactNotFound is returned when a contact id does not resolve.
	ErrContactNotFound = NotFound("Contact not found")

	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = Conflict("Email already registered")
	// ErrUsernameTaken is returned when a username is already in use.
	ErrUsernameTaken = Conflict("Username already taken")
	// ErrDuplicate is returned when the storage layer rejects a duplicate key.
	ErrDuplicate = Conflict("User with this email or username already exists")
	// ErrSelfDelete is returned when an admin tries to delete their own account.
	ErrSelfDelete = Conflict("Cannot delete your own account")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = Unauthorized("Invalid credentials")
	// ErrAccountInactive is returned when a deactivated user authenticates.
	ErrAccountInactive = Unauthorized("Account is deactivated")
	// ErrNoToken is returned when a protected route is called without a bearer token.
	ErrNoToken = Unauthorized("Not authorized, no token")
	// ErrInvalidToken is returned for malformed, expired or revoked tokens.
	ErrInvalidToken = Unauthorized("Not authorized, token failed")
	// ErrInvalidRefreshToken is returned when a refresh token is unknown or expired.
	ErrInvalidRefreshToken = Unauthorized("Invalid or expired refresh token")
	// ErrWrongPassword is returned when the current password does not match.
	ErrWrongPassword = New(KindValidation, "Current password is incorrect")

	// ErrInsufficientRole is returned when the caller's role is not permitted.
	ErrInsufficientRole = Forbidden("Not authorized to access this route")
)

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error envelope.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []FieldError
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
		Success: false,
		Message: e.Message,
		Code:    e.Code,
		Errors:  e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not an
// *Error, or is KindInternal, becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var ae *Error
	if !errors.As(err, &ae) {
		return NewHTTPError(http.StatusInternalServerError, "Server error", string(KindInternal))
	}

	var status int
	switch ae.Kind {
	case KindValidation:
		status = http.StatusBadRequest
	case KindNotFound:
		status = http.StatusNotFound
	case KindConflict:
		// Uniqueness and self-delete violations are reported as 400.
		status = http.StatusBadRequest
	case KindUnauthorized:
		status = http.StatusUnauthorized
	case KindForbidden:
		status = http.StatusForbidden
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error", string(KindInternal))
	}

	httpErr := NewHTTPError(status, ae.Message, string(ae.Kind))
	httpErr.Fields = ae.Fields
	return httpErr
}
