package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcoot/gamehub/internal/endpoint"
	"github.com/mcoot/gamehub/internal/model"
)

// ErrNoEndpoints is returned when a dispatch is given an empty endpoint list
var ErrNoEndpoints = errors.New("no endpoints configured")

// Error describes one failed attempt against one endpoint
type Error struct {
	Kind       model.ErrorKind
	Endpoint   endpoint.Descriptor
	URL        string
	StatusCode int

	// ServerMessage is the "message" field of a JSON error body, if any
	ServerMessage string

	// Detail is a human-readable diagnostic, e.g. the title of an HTML page
	Detail string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Endpoint.Name, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	switch {
	case e.Detail != "":
		fmt.Fprintf(&b, ": %s", e.Detail)
	case e.ServerMessage != "":
		fmt.Fprintf(&b, ": %s", e.ServerMessage)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Definitive reports whether the server answered in a way another
// address would not change: an auth failure or a server failure.
func (e *Error) Definitive() bool {
	return e.Kind == model.KindUnauthorized || e.Kind == model.KindServerError
}

// ExhaustedError is returned when every endpoint failed non-definitively
type ExhaustedError struct {
	Attempts []*Error
	Last     *Error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("all %d endpoints failed", len(e.Attempts))
	}
	return fmt.Sprintf("all %d endpoints failed, last: %v", len(e.Attempts), e.Last)
}

// Unwrap exposes the most recent underlying failure
func (e *ExhaustedError) Unwrap() error {
	if e.Last == nil {
		return nil
	}
	return e.Last
}

// AsError returns the attempt error carried by err, if any. For an
// ExhaustedError this is the last attempt.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// KindOf classifies err using the taxonomy of model.ErrorKind
func KindOf(err error) model.ErrorKind {
	if re, ok := AsError(err); ok {
		return re.Kind
	}
	if errors.Is(err, ErrNoEndpoints) {
		return model.KindConnectivity
	}
	return model.KindOf(err)
}

// IsUnauthorized reports whether err is a definitive 401
func IsUnauthorized(err error) bool {
	return KindOf(err) == model.KindUnauthorized
}

// IsExhausted reports whether err means no endpoint produced a usable answer
func IsExhausted(err error) bool {
	var ee *ExhaustedError
	return errors.As(err, &ee) || errors.Is(err, ErrNoEndpoints)
}
