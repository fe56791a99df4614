package transport

import "fmt"

// ErrorClass partitions transport failures by how callers should react.
type ErrorClass string

const (
	// ErrorClassClient covers upstream 4xx responses and GraphQL-level
	// errors: a caller bug (bad id, malformed filter). Never retried.
	ErrorClassClient ErrorClass = "CLIENT"
	// ErrorClassServer covers upstream 5xx responses. Retried with backoff.
	ErrorClassServer ErrorClass = "SERVER"
	// ErrorClassNetwork covers failures before any HTTP status was
	// observed. Retried with backoff.
	ErrorClassNetwork ErrorClass = "NETWORK"
)

// Error is the failure type raised by the transport.
type Error struct {
	Class   ErrorClass
	Status  int // HTTP status, 0 for network errors
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("holibob transport: %s (status=%d): %s", e.Class, e.Status, e.Message)
	}
	return fmt.Sprintf("holibob transport: %s: %s", e.Class, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the retry policy may re-attempt the call.
func (e *Error) Retryable() bool { return e.Class != ErrorClassClient }
