// Package mem is an in-process transport driver backed by channels. Useful
// for tests and for single-process pipelines that want portal semantics
// without OS sockets.
//
// Delivery model: every socket owns one inbound queue. Bind registers the
// socket under its endpoint name; Connect wires the two sockets as peers.
// Pair/req/rep sockets exchange with their first peer, push round-robins
// across peers, pub fans out to all peers (dropping when a peer's queue is
// full), pull and sub only receive. Multi-part continuation flags are
// accepted and ignored: each send is one envelope. Messages already queued at
// a receiver survive the sender's close, which gives close-timeout semantics
// for free.
package mem

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tel/pipes.aperture/pkg/transport"
)

const queueDepth = 128

// Driver creates in-process contexts.
type Driver struct{}

func New() *Driver { return &Driver{} }

func (*Driver) Name() string { return "mem" }

func (*Driver) NewContext(ioThreads int) (transport.Context, error) {
	// ioThreads has no meaning for channel delivery; accepted for interface
	// compatibility.
	return &memContext{endpoints: make(map[string]*socket)}, nil
}

type memContext struct {
	mu         sync.Mutex
	endpoints  map[string]*socket
	sockets    []*socket
	terminated bool
}

func (c *memContext) Socket(pattern int) (transport.Socket, error) {
	if pattern < transport.Pair || pattern > transport.Push {
		return nil, fmt.Errorf("mem: unsupported pattern code %d", pattern)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminated {
		return nil, errors.New("mem: context terminated")
	}
	s := &socket{
		ctx:     c,
		pattern: pattern,
		in:      make(chan []byte, queueDepth),
		done:    make(chan struct{}),
	}
	c.sockets = append(c.sockets, s)
	return s, nil
}

func (c *memContext) Terminate() error {
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return errors.New("mem: context already terminated")
	}
	c.terminated = true
	socks := c.sockets
	c.sockets = nil
	c.endpoints = make(map[string]*socket)
	c.mu.Unlock()
	for _, s := range socks {
		_ = s.Close()
	}
	return nil
}

type socket struct {
	ctx     *memContext
	pattern int

	mu     sync.Mutex
	closed bool
	bound  []string
	peers  []*socket
	next   int
	linger time.Duration

	in   chan []byte
	done chan struct{}
}

func (s *socket) Bind(endpoint string) error {
	c := s.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.isClosed() {
		return errors.New("mem: socket closed")
	}
	if _, taken := c.endpoints[endpoint]; taken {
		return fmt.Errorf("mem: endpoint %q already bound", endpoint)
	}
	c.endpoints[endpoint] = s
	s.mu.Lock()
	s.bound = append(s.bound, endpoint)
	s.mu.Unlock()
	return nil
}

func (s *socket) Connect(endpoint string) error {
	c := s.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.isClosed() {
		return errors.New("mem: socket closed")
	}
	b, ok := c.endpoints[endpoint]
	if !ok {
		return fmt.Errorf("mem: no socket bound at %q", endpoint)
	}
	s.addPeer(b)
	b.addPeer(s)
	return nil
}

func (s *socket) addPeer(p *socket) {
	s.mu.Lock()
	s.peers = append(s.peers, p)
	s.mu.Unlock()
}

func (s *socket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *socket) Send(data []byte, flags int) error {
	if s.isClosed() {
		return errors.New("mem: socket closed")
	}
	noblock := flags&transport.FlagNoBlock != 0
	switch s.pattern {
	case transport.Pull, transport.Sub:
		return fmt.Errorf("mem: %s socket is receive-only", transport.PatternName(s.pattern))
	case transport.Pub:
		s.mu.Lock()
		peers := append([]*socket(nil), s.peers...)
		s.mu.Unlock()
		for _, p := range peers {
			// pub never blocks: slow subscribers lose messages
			select {
			case p.in <- data:
			default:
			}
		}
		return nil
	case transport.Push:
		s.mu.Lock()
		if len(s.peers) == 0 {
			s.mu.Unlock()
			return errors.New("mem: no connected peer")
		}
		p := s.peers[s.next%len(s.peers)]
		s.next++
		s.mu.Unlock()
		return s.deliver(p, data, noblock)
	default:
		s.mu.Lock()
		if len(s.peers) == 0 {
			s.mu.Unlock()
			return errors.New("mem: no connected peer")
		}
		p := s.peers[0]
		s.mu.Unlock()
		return s.deliver(p, data, noblock)
	}
}

func (s *socket) deliver(p *socket, data []byte, noblock bool) error {
	if noblock {
		select {
		case p.in <- data:
			return nil
		default:
			return errors.New("mem: send would block")
		}
	}
	select {
	case p.in <- data:
		return nil
	case <-p.done:
		// peer closed while we were blocked; the transport discards
		return nil
	case <-s.done:
		return errors.New("mem: socket closed")
	}
}

func (s *socket) Recv(flags int) ([]byte, bool, error) {
	if s.isClosed() {
		return nil, false, errors.New("mem: socket closed")
	}
	switch s.pattern {
	case transport.Push, transport.Pub:
		return nil, false, fmt.Errorf("mem: %s socket is send-only", transport.PatternName(s.pattern))
	}
	if flags&transport.FlagNoBlock != 0 {
		select {
		case b := <-s.in:
			return b, true, nil
		default:
			return nil, false, nil
		}
	}
	select {
	case b := <-s.in:
		return b, true, nil
	case <-s.done:
		return nil, false, errors.New("mem: socket closed")
	}
}

func (s *socket) SetLinger(d time.Duration) error {
	s.mu.Lock()
	s.linger = d
	s.mu.Unlock()
	return nil
}

func (s *socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("mem: socket already closed")
	}
	s.closed = true
	bound := s.bound
	s.bound = nil
	s.mu.Unlock()
	close(s.done)

	c := s.ctx
	c.mu.Lock()
	for _, ep := range bound {
		if c.endpoints[ep] == s {
			delete(c.endpoints, ep)
		}
	}
	c.mu.Unlock()
	return nil
}
