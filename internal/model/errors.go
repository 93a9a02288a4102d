package model

import "errors"

// Common errors used across the application
var (
	// Storage errors
	ErrNoSession      = errors.New("no active session")
	ErrNoSettings     = errors.New("no settings saved")
	ErrNoAchievements = errors.New("no achievements saved")

	// Catalog errors
	ErrGameNotFound    = errors.New("game not found")
	ErrCommentNotFound = errors.New("comment not found")

	// Input errors
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// ErrorKind classifies a failure independently of how it is displayed
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTimeout
	KindConnectivity
	KindUnauthorized
	KindServerError
	KindMalformedResponse
	KindRejected // any other non-2xx answer
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnectivity:
		return "connectivity"
	case KindUnauthorized:
		return "unauthorized"
	case KindServerError:
		return "server_error"
	case KindMalformedResponse:
		return "malformed_response"
	case KindRejected:
		return "rejected"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the user-facing error returned by the client services.
// Error() yields Message unchanged so it can be shown as-is.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates an error for input rejected before any network call
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
