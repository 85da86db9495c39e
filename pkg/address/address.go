// Package address turns endpoint specifications into canonical transport
// URIs. A spec is either a literal URI used as-is, or a (scheme, location)
// pair joined through a fixed prefix table.
package address

import "fmt"

// Scheme prefixes. The keywords are the portable names pipeline configs use;
// the prefixes are the transport's URI grammar.
var prefixes = map[string]string{
	"in-process":     "inproc://",
	"ipc":            "ipc://",
	"tcp":            "tcp://",
	"pgm":            "pgm://",
	"epgm-multicast": "epgm://",
}

// ProtocolError reports a spec whose scheme is not in the prefix table, or an
// empty spec.
type ProtocolError struct {
	Spec string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unresolvable address spec %s", e.Spec)
}

// Spec is an endpoint specification. The zero Spec is invalid.
type Spec struct {
	literal    string
	scheme     string
	location   any
	structured bool
	set        bool
}

// URI wraps a literal endpoint string, assumed to already be a valid
// transport URI. Resolve returns it unchanged.
func URI(literal string) Spec { return Spec{literal: literal, set: true} }

// Scheme builds a structured spec from a scheme keyword and a location value.
// The location is stringified when the spec resolves.
func Scheme(scheme string, location any) Spec {
	return Spec{scheme: scheme, location: location, structured: true, set: true}
}

func (s Spec) String() string {
	switch {
	case !s.set:
		return "<empty>"
	case s.structured:
		return fmt.Sprintf("(%s, %v)", s.scheme, s.location)
	default:
		return fmt.Sprintf("%q", s.literal)
	}
}

// Resolve produces the canonical URI for the spec. Unknown schemes and the
// zero Spec fail with a *ProtocolError carrying the spec for diagnosis.
func (s Spec) Resolve() (string, error) {
	if !s.set {
		return "", &ProtocolError{Spec: s.String()}
	}
	if !s.structured {
		return s.literal, nil
	}
	prefix, ok := prefixes[s.scheme]
	if !ok {
		return "", &ProtocolError{Spec: s.String()}
	}
	return prefix + fmt.Sprint(s.location), nil
}
