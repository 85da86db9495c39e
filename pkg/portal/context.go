// Package portal is the symbolic layer pipeline stages use to open typed
// communication endpoints by role name instead of raw transport constants.
// A Context owns the shared transport resources; sockets created from it
// serialize whole objects per envelope through a codec and move them over
// the transport collaborator.
package portal

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tel/pipes.aperture/pkg/codec"
	"github.com/tel/pipes.aperture/pkg/transport"
)

// Context wraps one transport context together with the default envelope
// codec and logger for sockets created from it. Construct it at the
// application's composition root and call Shutdown from its exit path.
type Context struct {
	driver string
	tc     transport.Context
	codec  codec.Codec
	log    *zap.Logger
	down   atomic.Bool
}

type options struct {
	ioThreads int
	codec     codec.Codec
	log       *zap.Logger
}

// Option configures a Context.
type Option func(*options)

// WithIOThreads sets the transport's IO-thread count. Default 1.
func WithIOThreads(n int) Option { return func(o *options) { o.ioThreads = n } }

// WithCodec sets the default envelope codec. Default CBOR.
func WithCodec(c codec.Codec) Option { return func(o *options) { o.codec = c } }

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// NewContext builds a context on the given transport driver.
func NewContext(drv transport.Driver, opts ...Option) (*Context, error) {
	o := options{ioThreads: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		o.codec = codec.CBOR()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	tc, err := drv.NewContext(o.ioThreads)
	if err != nil {
		return nil, &ResourceError{Op: "context", Err: err}
	}
	o.log.Debug("transport context ready",
		zap.String("driver", drv.Name()),
		zap.Int("io_threads", o.ioThreads))
	return &Context{driver: drv.Name(), tc: tc, codec: o.codec, log: o.log}, nil
}

// Shutdown terminates the underlying transport context. Only the first call
// reaches the transport; later calls return nil without effect, so repeated
// or concurrent shutdown attempts terminate the shared resources exactly
// once. Sockets still open keep their linger contract with the transport.
func (c *Context) Shutdown() error {
	if !c.down.CompareAndSwap(false, true) {
		return nil
	}
	c.log.Debug("terminating transport context", zap.String("driver", c.driver))
	if err := c.tc.Terminate(); err != nil {
		return &ResourceError{Op: "terminate", Err: err}
	}
	return nil
}

var (
	sharedMu  sync.Mutex
	sharedCtx *Context
	sharedErr error
	sharedSet bool
)

// Shared returns the process-wide context, constructing it on first call.
// Every later call returns the same instance and ignores its arguments; the
// construction is race-safe under concurrent first access. Hosts that prefer
// explicit wiring should use NewContext instead.
func Shared(drv transport.Driver, opts ...Option) (*Context, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if !sharedSet {
		sharedCtx, sharedErr = NewContext(drv, opts...)
		sharedSet = true
	}
	return sharedCtx, sharedErr
}
