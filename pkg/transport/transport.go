// Package transport defines the canonical collaborator interfaces the portal
// layer talks to: a Driver that builds process-wide Contexts, Contexts that
// mint pattern-typed Sockets, and Sockets that move opaque byte envelopes.
//
// The numeric pattern, device, and flag codes follow libzmq so drivers backed
// by it can pass them through unchanged; in-process drivers interpret the same
// codes.
package transport

import "time"

// Messaging pattern codes, fixed on a socket at creation.
const (
	Pair = 0
	Pub  = 1
	Sub  = 2
	Req  = 3
	Rep  = 4
	XReq = 5
	XRep = 6
	Pull = 7
	Push = 8
)

// Device codes name a forwarding topology between two socket roles. This
// layer resolves the names but runs no device loop.
const (
	DeviceNone      = 0
	DeviceStreamer  = 1
	DeviceForwarder = 2
	DeviceQueue     = 3
)

// Send/receive flag bits.
const (
	FlagNone     = 0
	FlagNoBlock  = 1
	FlagSendMore = 2
)

// PatternName returns a human-readable name for a pattern code, for logs.
func PatternName(code int) string {
	switch code {
	case Pair:
		return "pair"
	case Pub:
		return "pub"
	case Sub:
		return "sub"
	case Req:
		return "req"
	case Rep:
		return "rep"
	case XReq:
		return "extended-req"
	case XRep:
		return "extended-rep"
	case Pull:
		return "pull"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// Driver constructs transport contexts for a specific backend.
type Driver interface {
	Name() string
	// NewContext allocates the OS-level messaging infrastructure shared by
	// every socket the context creates. ioThreads sizes the backend's IO
	// machinery where it applies.
	NewContext(ioThreads int) (Context, error)
}

// Context owns the shared transport resources for one process. It is safe for
// concurrent use by multiple sockets and goroutines. Terminate must be called
// exactly once, after the owning application begins shutdown.
type Context interface {
	// Socket creates a new socket for the given pattern code.
	Socket(pattern int) (Socket, error)
	// Terminate releases the shared resources. Pending blocking calls on
	// sockets of this context end with a transport-defined error.
	Terminate() error
}

// Socket is a single-owner endpoint: it must not be used concurrently from
// multiple goroutines without external synchronization. Send and Recv block
// unless FlagNoBlock is set; closing the socket is the only cancellation.
type Socket interface {
	Bind(endpoint string) error
	Connect(endpoint string) error
	// Send transmits one envelope. FlagSendMore marks a multi-part
	// continuation; FlagNoBlock requests a non-blocking send.
	Send(data []byte, flags int) error
	// Recv returns the next envelope. ok is false when FlagNoBlock was set
	// and nothing was pending; that is not an error.
	Recv(flags int) (data []byte, ok bool, err error)
	// SetLinger bounds how long a closed socket keeps flushing unsent data.
	SetLinger(d time.Duration) error
	Close() error
}
