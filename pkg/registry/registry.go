// Package registry maps the symbolic names pipeline stages use (patterns,
// devices, send/receive flags) to the transport's numeric codes. The three
// namespaces are independent: "none" as a device and "none" as a flag are
// unrelated entries.
package registry

import (
	"fmt"

	"github.com/tel/pipes.aperture/pkg/transport"
)

// Token is either a symbolic name or a raw transport code. The zero Token is
// unset; callers that allow a default substitute one before resolving.
type Token struct {
	name string
	code int
	set  bool
	raw  bool
}

// Name returns a token referring to a symbolic entry of some namespace.
func Name(name string) Token { return Token{name: name, set: true} }

// Code returns a token carrying a raw transport code. Resolve returns it
// unchanged in every namespace.
func Code(code int) Token { return Token{code: code, set: true, raw: true} }

// IsZero reports whether the token is unset.
func (t Token) IsZero() bool { return !t.set }

func (t Token) String() string {
	switch {
	case !t.set:
		return "<unset>"
	case t.raw:
		return fmt.Sprintf("#%d", t.code)
	default:
		return t.name
	}
}

// ConfigurationError reports a symbolic token that has no entry in the
// namespace it was resolved against, or an otherwise invalid configuration
// value.
type ConfigurationError struct {
	Namespace string
	Token     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Namespace, e.Token)
}

// Namespace is one immutable symbol table.
type Namespace struct {
	label  string
	byName map[string]int
}

// Resolve returns the transport code for a token: raw codes pass through
// unchanged, names are looked up. Unknown names fail with a
// *ConfigurationError carrying the namespace and the offending name.
func (ns Namespace) Resolve(t Token) (int, error) {
	if t.raw {
		return t.code, nil
	}
	if code, ok := ns.byName[t.name]; ok {
		return code, nil
	}
	return 0, &ConfigurationError{Namespace: ns.label, Token: t.String()}
}

// The three namespaces.
var (
	Patterns = Namespace{label: "pattern", byName: map[string]int{
		"pair":         transport.Pair,
		"push":         transport.Push,
		"pull":         transport.Pull,
		"pub":          transport.Pub,
		"sub":          transport.Sub,
		"req":          transport.Req,
		"rep":          transport.Rep,
		"extended-req": transport.XReq,
		"extended-rep": transport.XRep,
	}}

	Devices = Namespace{label: "device", byName: map[string]int{
		"none":      transport.DeviceNone,
		"streamer":  transport.DeviceStreamer,
		"forwarder": transport.DeviceForwarder,
		"queue":     transport.DeviceQueue,
	}}

	Flags = Namespace{label: "flag", byName: map[string]int{
		"none":      transport.FlagNone,
		"send-more": transport.FlagSendMore,
		"no-block":  transport.FlagNoBlock,
	}}
)

// Pre-built tokens for the common names.
var (
	Pair        = Name("pair")
	Push        = Name("push")
	Pull        = Name("pull")
	Pub         = Name("pub")
	Sub         = Name("sub")
	Req         = Name("req")
	Rep         = Name("rep")
	ExtendedReq = Name("extended-req")
	ExtendedRep = Name("extended-rep")

	None     = Name("none")
	SendMore = Name("send-more")
	NoBlock  = Name("no-block")
)
