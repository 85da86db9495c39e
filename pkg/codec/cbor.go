package codec

import (
	cbor "github.com/fxamacker/cbor/v2"
)

// Modes built from stock options; constructing them cannot fail at runtime.
var (
	cborEnc = func() cbor.EncMode {
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			panic(err)
		}
		return em
	}()
	cborDec = func() cbor.DecMode {
		dm, err := cbor.DecOptions{}.DecMode()
		if err != nil {
			panic(err)
		}
		return dm
	}()
)

type cborCodec struct{}

// CBOR returns a deterministic CBOR codec (RFC 8949, canonical core profile).
// It round-trips arbitrary object graphs, including nil, and is the default
// envelope serializer.
func CBOR() Codec { return cborCodec{} }

func (cborCodec) Name() string { return "cbor" }

func (cborCodec) ContentType() string { return "application/cbor" }

func (cborCodec) Marshal(v any) ([]byte, error) { return cborEnc.Marshal(v) }

func (cborCodec) Unmarshal(data []byte, v any) error { return cborDec.Unmarshal(data, v) }
