// Package codec provides the serializer collaborator of the portal layer:
// implementations turn one application object into one byte envelope and
// back. Implementations must be deterministic and must round-trip every
// payload type the surrounding pipeline produces.
package codec

// Codec marshals typed payloads.
type Codec interface {
	// Name is the short alias used in configuration ("cbor", "json", ...).
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Registry maps codec names and content types to codecs.
type Registry struct {
	byName map[string]Codec
	byType map[string]Codec
}

// NewRegistry constructs a registry preloaded with the built-in codecs:
// CBOR, JSON, and Protobuf.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Codec), byType: make(map[string]Codec)}
	r.Register(CBOR())
	r.Register(JSON())
	r.Register(Proto())
	return r
}

// Register adds a codec under both its name and content type.
func (r *Registry) Register(c Codec) {
	r.byName[c.Name()] = c
	r.byType[c.ContentType()] = c
}

// Get returns a codec by name or content type, or nil.
func (r *Registry) Get(nameOrType string) Codec {
	if c := r.byName[nameOrType]; c != nil {
		return c
	}
	return r.byType[nameOrType]
}
