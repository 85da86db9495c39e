package portal

import (
	"go.uber.org/zap"

	"github.com/tel/pipes.aperture/pkg/address"
	"github.com/tel/pipes.aperture/pkg/registry"
)

// Mode says how a scoped socket attaches to its endpoint.
type Mode string

const (
	Bind    Mode = "bind"
	Connect Mode = "connect"
)

// SocketSpec describes one socket of a scoped set.
type SocketSpec struct {
	Mode    Mode
	Label   string
	Pattern registry.Token
	Address address.Spec
	Options Options
}

// SocketSet is the ordered group of sockets a scope exposes to its enclosed
// operation, addressable by label.
type SocketSet struct {
	labels  []string
	byLabel map[string]*Socket
}

// Get returns the socket created under label, or nil.
func (ss *SocketSet) Get(label string) *Socket { return ss.byLabel[label] }

// Labels returns the labels in creation order.
func (ss *SocketSet) Labels() []string { return append([]string(nil), ss.labels...) }

// WithSockets creates one socket per spec in order, attaches it per its
// mode, and runs fn with the resulting set. Every socket created here is
// closed in reverse creation order before WithSockets returns, on every exit
// path: normal return, error from fn, a setup failure partway through, or a
// panic. A setup failure on the k-th socket still closes sockets 1..k-1 and
// propagates the original error. An empty spec list runs fn with an empty
// set.
func (c *Context) WithSockets(specs []SocketSpec, fn func(*SocketSet) error) (err error) {
	set := &SocketSet{byLabel: make(map[string]*Socket, len(specs))}
	var open []*Socket
	defer func() {
		for i := len(open) - 1; i >= 0; i-- {
			if cerr := open[i].Close(); cerr != nil {
				c.log.Warn("closing scoped socket failed", zap.Error(cerr))
				if err == nil {
					err = cerr
				}
			}
		}
	}()

	for _, spec := range specs {
		if _, dup := set.byLabel[spec.Label]; dup {
			return &registry.ConfigurationError{Namespace: "scope label", Token: spec.Label}
		}
		s, serr := c.Socket(spec.Pattern, spec.Options)
		if serr != nil {
			return serr
		}
		open = append(open, s)
		switch spec.Mode {
		case Bind:
			serr = s.Bind(spec.Address)
		case Connect:
			serr = s.Connect(spec.Address)
		default:
			serr = &registry.ConfigurationError{Namespace: "scope mode", Token: string(spec.Mode)}
		}
		if serr != nil {
			return serr
		}
		set.byLabel[spec.Label] = s
		set.labels = append(set.labels, spec.Label)
	}
	return fn(set)
}
