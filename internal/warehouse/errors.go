package warehouse

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the service rejected the device credentials
var ErrUnauthorized = errors.New("warehouse service rejected credentials")

// ServerError represents a 5xx error from the warehouse service
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("warehouse service error (status %d)", e.StatusCode)
}

// APIError represents a well-formed negative acknowledgement: the service
// understood the request and refused it. For retry-credit purposes it is
// treated exactly like a transport failure.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("warehouse service refused request: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("warehouse service refused request: %s", e.Message)
}

// TransportError wraps a failure to reach or understand the service:
// connection refused, timeout, malformed response body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "warehouse service unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsServerError reports whether err is a 5xx-equivalent failure.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// IsRemoteFailure reports whether err came from the remote side (transport,
// 5xx, or structured refusal) rather than from local storage. Callers use
// this to decide between attempt bookkeeping and hard propagation.
func IsRemoteFailure(err error) bool {
	var te *TransportError
	var se *ServerError
	var ae *APIError
	return errors.As(err, &te) || errors.As(err, &se) || errors.As(err, &ae) || errors.Is(err, ErrUnauthorized)
}
