package transcriber

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoResponse is wrapped by every failure where the request was sent but
// no response arrived (network failure, timeout, cancellation).
var ErrNoResponse = errors.New("no response from server")

// RemoteError is returned when the remote service answered with a non-2xx status.
// Payload is the remote body as received.
type RemoteError struct {
	StatusCode int
	Payload    json.RawMessage
}

func (e *RemoteError) Error() string {
	if len(e.Payload) == 0 {
		return fmt.Sprintf("remote error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.StatusCode, truncate(string(e.Payload), 200))
}

// RequestError is returned when the request could not be built locally.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("build request: %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func noResponse(err error) error {
	return fmt.Errorf("%w: %w", ErrNoResponse, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
