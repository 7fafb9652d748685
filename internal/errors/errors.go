package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"referrals/internal/model"
)

// Kind classifies a domain error and decides its HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindConflict
	KindDependency
	KindTooLarge
	KindInternal
)

// Error is a domain error carrying a human readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = New(KindValidation, "Invalid email format")
	// ErrInvalidPhone is returned when a phone number is malformed.
	ErrInvalidPhone = New(KindValidation, "Invalid phone number format. Phone must be 10-15 digits")
	// ErrInvalidStatus is returned when a status is not one of the known values.
	ErrInvalidStatus = New(KindValidation, "Invalid status. Must be one of: "+joinStatuses())
	// ErrInvalidResume is returned when an uploaded resume is not a PDF.
	ErrInvalidResume = New(KindValidation, "Only PDF files are allowed")
	// ErrInvalidBody is returned when a request body cannot be decoded.
	ErrInvalidBody = New(KindValidation, "Invalid request body")
	// ErrResumeTooLarge is returned when a resume exceeds the upload limit.
	ErrResumeTooLarge = New(KindTooLarge, "Resume file is too large")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = New(KindConflict, "Email already registered")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = New(KindAuth, "Invalid email or password")
	// ErrUnauthenticated is returned when no bearer token is supplied.
	ErrUnauthenticated = New(KindAuth, "No token provided")
	// ErrTokenExpired is returned when the bearer token is past its expiry.
	ErrTokenExpired = New(KindAuth, "Token has expired")
	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = New(KindAuth, "Invalid token")
	// ErrUserNotFound is returned when a valid token names an unknown user.
	ErrUserNotFound = New(KindAuth, "User not found")

	// ErrCandidateNotFound is returned when a candidate id is unknown.
	ErrCandidateNotFound = New(KindNotFound, "Candidate not found")

	// ErrUploadFailed is returned when the blob store rejects a resume.
	ErrUploadFailed = New(KindDependency, "Failed to upload resume")

	// ErrInternal is the catch-all for unexpected failures.
	ErrInternal = New(KindInternal, "Internal server error")
)

func joinStatuses() string {
	names := make([]string, 0, len(model.CandidateStatuses))
	for _, s := range model.CandidateStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// ErrorResponse represents the error body returned by every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Detail: e.Message}
}

// StatusFor returns the HTTP status code for an error kind.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything that is not a domain error becomes a 500 with a generic message.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return NewHTTPError(StatusFor(domainErr.Kind), domainErr.Message)
	}
	return NewHTTPError(http.StatusInternalServerError, ErrInternal.Message)
}

// IsInternal reports whether err maps to a server-side failure.
func IsInternal(err error) bool {
	return MapErrorToHTTP(err).StatusCode >= http.StatusInternalServerError
}

// ToEcho converts err into an echo error whose message is the {detail} body.
// err itself is kept as the internal cause for logging.
func ToEcho(err error) *echo.HTTPError {
	httpErr := MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}
