package registry

import (
	"errors"
	"testing"

	"github.com/tel/pipes.aperture/pkg/transport"
)

func TestResolveNames(t *testing.T) {
	code, err := Patterns.Resolve(Pair)
	if err != nil {
		t.Fatalf("resolve pair: %v", err)
	}
	if code != transport.Pair {
		t.Fatalf("pair: got %d, want %d", code, transport.Pair)
	}
	for name, want := range map[string]int{
		"push":         transport.Push,
		"sub":          transport.Sub,
		"extended-req": transport.XReq,
		"extended-rep": transport.XRep,
	} {
		got, err := Patterns.Resolve(Name(name))
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: got %d, want %d", name, got, want)
		}
	}
}

func TestResolveRawCodePassesThrough(t *testing.T) {
	for _, ns := range []Namespace{Patterns, Devices, Flags} {
		got, err := ns.Resolve(Code(42))
		if err != nil {
			t.Fatalf("%s: %v", ns.label, err)
		}
		if got != 42 {
			t.Fatalf("%s: got %d, want 42", ns.label, got)
		}
	}
}

func TestResolveUnknownName(t *testing.T) {
	_, err := Patterns.Resolve(Name("carrier-pigeon"))
	if err == nil {
		t.Fatal("expected error for unknown pattern")
	}
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
	if cerr.Namespace != "pattern" || cerr.Token != "carrier-pigeon" {
		t.Fatalf("error fields: %+v", cerr)
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	// "streamer" is a device, not a flag
	if _, err := Flags.Resolve(Name("streamer")); err == nil {
		t.Fatal("flag namespace resolved a device name")
	}
	if _, err := Devices.Resolve(Name("streamer")); err != nil {
		t.Fatalf("device streamer: %v", err)
	}
	// flag "none" and device "none" both exist with their own codes
	fn, err := Flags.Resolve(None)
	if err != nil || fn != transport.FlagNone {
		t.Fatalf("flag none: %d %v", fn, err)
	}
}

func TestZeroToken(t *testing.T) {
	var tok Token
	if !tok.IsZero() {
		t.Fatal("zero token should report IsZero")
	}
	if _, err := Patterns.Resolve(tok); err == nil {
		t.Fatal("zero token should not resolve")
	}
}
