package odoo

import (
	"errors"
	"fmt"
)

// ErrNoSessionToken is returned (wrapped in a RemoteError) when the server
// accepts the login but never sets the session cookie.
var ErrNoSessionToken = errors.New("no session token issued")

// ValidationError reports missing or malformed input detected before any
// remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError reports a non-2xx HTTP response or a failed round trip.
// StatusCode is zero when no response was received at all.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Reason     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("HTTP error (%s): %s", e.Endpoint, e.Reason)
	}
	msg := fmt.Sprintf("HTTP error (%s): %d %s", e.Endpoint, e.StatusCode, e.Reason)
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a JSON-RPC level error reported by the server.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return "JSON-RPC error: " + e.Message
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NotFoundError reports that a required remote record does not exist.
type NotFoundError struct {
	Model    string
	Criteria string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (%s)", e.Model, e.Criteria)
}

// ProtocolError reports a response whose shape does not match what the
// calling operation expects.
type ProtocolError struct {
	Op     string
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// Outcome classifies err into one of the error kinds above. It is used as a
// metrics label and by the presentation layer to pick a status code.
func Outcome(err error) string {
	var (
		validationErr *ValidationError
		transportErr  *TransportError
		remoteErr     *RemoteError
		notFoundErr   *NotFoundError
		protocolErr   *ProtocolError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &remoteErr):
		return "remote"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &protocolErr):
		return "protocol"
	default:
		return "transport"
	}
}
