package portal

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tel/pipes.aperture/pkg/address"
	"github.com/tel/pipes.aperture/pkg/registry"
	"github.com/tel/pipes.aperture/pkg/transport"
)

// Options carries socket creation options by name. Only OptionCloseTimeout
// is interpreted; unrecognized keys are logged and ignored so option maps
// can be fed straight from host configuration.
type Options map[string]any

// OptionCloseTimeout sets the linger duration: how long a closed socket
// keeps flushing unsent data before discarding it. The value is a
// time.Duration or an integer number of seconds.
const OptionCloseTimeout = "closeTimeout"

// Socket is a typed endpoint. It is single-owner: not safe for concurrent
// use from multiple goroutines without external synchronization. Lifecycle
// is Created, then optionally Bound or Connected once, then Closed; no
// operation leaves Closed.
type Socket struct {
	ts       transport.Socket
	pattern  int
	codec    Serializer
	log      *zap.Logger
	endpoint string
	closed   atomic.Bool
}

// Serializer is the envelope codec collaborator: one object in, one byte
// envelope out, and back.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Socket creates a new unbound socket for the given pattern. A zero pattern
// token means pair. The caller owns the socket and must close it; no
// implicit bind or connect happens here.
func (c *Context) Socket(pattern registry.Token, opts Options) (*Socket, error) {
	if c.down.Load() {
		return nil, ErrShutdown
	}
	if pattern.IsZero() {
		pattern = registry.Pair
	}
	code, err := registry.Patterns.Resolve(pattern)
	if err != nil {
		return nil, err
	}
	ts, err := c.tc.Socket(code)
	if err != nil {
		return nil, &ResourceError{Op: "socket", Err: err}
	}
	s := &Socket{ts: ts, pattern: code, codec: c.codec, log: c.log}
	if err := s.applyOptions(opts); err != nil {
		_ = ts.Close()
		return nil, err
	}
	return s, nil
}

func (s *Socket) applyOptions(opts Options) error {
	for key, value := range opts {
		switch key {
		case OptionCloseTimeout:
			d, ok := asDuration(value)
			if !ok {
				return &registry.ConfigurationError{Namespace: "socket option " + key, Token: fmt.Sprintf("%v", value)}
			}
			if err := s.ts.SetLinger(d); err != nil {
				return &ResourceError{Op: "set linger", Err: err}
			}
		default:
			s.log.Debug("ignoring unrecognized socket option", zap.String("option", key))
		}
	}
	return nil
}

func asDuration(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case time.Duration:
		return d, true
	case int:
		return time.Duration(d) * time.Second, true
	case int64:
		return time.Duration(d) * time.Second, true
	default:
		return 0, false
	}
}

// Pattern returns the socket's resolved pattern code.
func (s *Socket) Pattern() int { return s.pattern }

// Bind attaches the socket to a local endpoint.
func (s *Socket) Bind(spec address.Spec) error {
	if s.closed.Load() {
		return ErrClosed
	}
	uri, err := spec.Resolve()
	if err != nil {
		return err
	}
	if err := s.ts.Bind(uri); err != nil {
		return &ResourceError{Op: "bind", Endpoint: uri, Err: err}
	}
	s.endpoint = uri
	s.log.Debug("socket bound",
		zap.String("pattern", transport.PatternName(s.pattern)),
		zap.String("endpoint", uri))
	return nil
}

// Connect attaches the socket to a remote endpoint.
func (s *Socket) Connect(spec address.Spec) error {
	if s.closed.Load() {
		return ErrClosed
	}
	uri, err := spec.Resolve()
	if err != nil {
		return err
	}
	if err := s.ts.Connect(uri); err != nil {
		return &ResourceError{Op: "connect", Endpoint: uri, Err: err}
	}
	s.endpoint = uri
	s.log.Debug("socket connected",
		zap.String("pattern", transport.PatternName(s.pattern)),
		zap.String("endpoint", uri))
	return nil
}

// Send serializes v into one envelope and transmits it. Flags resolve
// through the flag namespace; raw codes pass through and multiple flags OR
// together. send-more marks a multi-part continuation, no-block requests a
// non-blocking send. Without no-block the call may block per the
// transport's contract.
func (s *Socket) Send(v any, flags ...registry.Token) error {
	if s.closed.Load() {
		return ErrClosed
	}
	fl, err := resolveFlags(flags)
	if err != nil {
		return err
	}
	data, err := s.codec.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.ts.Send(data, fl); err != nil {
		return &ResourceError{Op: "send", Endpoint: s.endpoint, Err: err}
	}
	return nil
}

// Recv receives one envelope and deserializes it into out, which must be a
// pointer. The first result is false when a non-blocking read found nothing
// pending; that is normal control flow, not an error. A received envelope is
// exactly one previously sent object: no multi-part reassembly, no topic
// header.
func (s *Socket) Recv(out any, flags ...registry.Token) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	fl, err := resolveFlags(flags)
	if err != nil {
		return false, err
	}
	data, ok, err := s.ts.Recv(fl)
	if err != nil {
		return false, &ResourceError{Op: "recv", Endpoint: s.endpoint, Err: err}
	}
	if !ok {
		return false, nil
	}
	if err := s.codec.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the socket's transport resource. Effective once: a second
// Close fails with ErrClosed, as does any send or receive after the first.
// Closing unblocks a pending blocking call on the socket with a
// transport-defined error.
func (s *Socket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if err := s.ts.Close(); err != nil {
		return &ResourceError{Op: "close", Endpoint: s.endpoint, Err: err}
	}
	return nil
}

func resolveFlags(flags []registry.Token) (int, error) {
	out := transport.FlagNone
	for _, f := range flags {
		code, err := registry.Flags.Resolve(f)
		if err != nil {
			return 0, err
		}
		out |= code
	}
	return out, nil
}
