package provider

import "errors"

// ErrMissingCredentials is returned before any network I/O when the API key
// or secret is empty.
var ErrMissingCredentials = errors.New("api credentials are not configured")

// RejectedError means the provider answered with a non-success status. The
// message is the provider's own error text.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// TransportError wraps network and protocol faults, including timeouts and
// undecodable responses.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "provider request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
