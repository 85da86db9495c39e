// Package zmq is the production transport driver, a thin shim over libzmq
// through github.com/pebbe/zmq4. Pattern and flag codes pass straight
// through; they already use libzmq numbering.
package zmq

import (
	"fmt"
	"syscall"
	"time"

	zmq4 "github.com/pebbe/zmq4"

	"github.com/tel/pipes.aperture/pkg/transport"
)

// Driver creates libzmq contexts.
type Driver struct{}

func New() *Driver { return &Driver{} }

func (*Driver) Name() string { return "zmq" }

func (*Driver) NewContext(ioThreads int) (transport.Context, error) {
	ctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("zmq: new context: %w", err)
	}
	if ioThreads > 0 {
		if err := ctx.SetIoThreads(ioThreads); err != nil {
			_ = ctx.Term()
			return nil, fmt.Errorf("zmq: set io threads: %w", err)
		}
	}
	return &zctx{ctx: ctx}, nil
}

type zctx struct{ ctx *zmq4.Context }

func (c *zctx) Socket(pattern int) (transport.Socket, error) {
	s, err := c.ctx.NewSocket(zmq4.Type(pattern))
	if err != nil {
		return nil, err
	}
	// sub sockets receive everything: no topic filtering in this layer
	if zmq4.Type(pattern) == zmq4.SUB {
		if err := s.SetSubscribe(""); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return &zsock{s: s}, nil
}

func (c *zctx) Terminate() error { return c.ctx.Term() }

type zsock struct{ s *zmq4.Socket }

func (z *zsock) Bind(endpoint string) error    { return z.s.Bind(endpoint) }
func (z *zsock) Connect(endpoint string) error { return z.s.Connect(endpoint) }

func (z *zsock) Send(data []byte, flags int) error {
	_, err := z.s.SendBytes(data, zmq4.Flag(flags))
	return err
}

func (z *zsock) Recv(flags int) ([]byte, bool, error) {
	data, err := z.s.RecvBytes(zmq4.Flag(flags))
	if err != nil {
		if zmq4.AsErrno(err) == zmq4.Errno(syscall.EAGAIN) {
			// non-blocking read with nothing pending
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (z *zsock) SetLinger(d time.Duration) error { return z.s.SetLinger(d) }
func (z *zsock) Close() error                    { return z.s.Close() }
