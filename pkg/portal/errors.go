package portal

import (
	"errors"
	"fmt"
)

// ErrClosed reports an operation on a socket that was already closed. A
// socket closes effectively once.
var ErrClosed = errors.New("portal: socket closed")

// ErrShutdown reports socket creation on a context after Shutdown.
var ErrShutdown = errors.New("portal: context shut down")

// ResourceError wraps a transport failure unmodified, together with the
// operation and endpoint for diagnosis. No recovery or retry is attempted.
type ResourceError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *ResourceError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("portal: %s %s: %v", e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("portal: %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
