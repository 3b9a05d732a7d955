package practicum

import (
	"errors"
	"fmt"
)

// ErrResponseTooLarge means the body exceeded the size the client is willing to read.
var ErrResponseTooLarge = errors.New("response body too large")

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type StatusCodeError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
}

// DecodeError keeps an excerpt of the offending body for logs. The message
// itself does not include it, so repeated failures read the same.
type DecodeError struct {
	Endpoint string
	Body     string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s returned invalid json", e.Endpoint)
}
