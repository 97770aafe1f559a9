// Package codec encodes serialized state documents for the wire and for
// storage. Every codec decodes to a Document that serialization.Load
// accepts: nested maps come back as string-keyed maps and integers in any
// of the numeric forms the loader understands.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/statewire/serialization"
)

// Codec names.
const (
	NameJSON    = "json"
	NameCBOR    = "cbor"
	NameMsgpack = "msgpack"
	NameProto   = "proto"
)

var (
	ErrUnknownCodec = errors.New("unknown codec")
	ErrMalformed    = errors.New("malformed encoded document")
)

// Codec marshals documents to bytes and back.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(doc serialization.Document) ([]byte, error)
	Unmarshal(data []byte) (serialization.Document, error)
}

// Registry maps codec names and content types to codecs.
type Registry struct {
	byName map[string]Codec
	byType map[string]Codec
	mu     sync.RWMutex
}

// NewRegistry returns a registry preloaded with the JSON, CBOR, msgpack
// and protobuf codecs.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]Codec),
		byType: make(map[string]Codec),
	}
	r.Register(JSON())
	r.Register(MustCBOR())
	r.Register(Msgpack())
	r.Register(Proto())
	return r
}

// Register adds or replaces a codec under its name and content type.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[c.Name()] = c
	r.byType[c.ContentType()] = c
}

// Lookup returns the codec registered under a name or a content type.
func (r *Registry) Lookup(key string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.byName[key]; ok {
		return c, nil
	}
	if c, ok := r.byType[key]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, key)
}

// Names returns the registered codec names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var std = NewRegistry()

// Lookup returns a built-in codec by name or content type.
func Lookup(key string) (Codec, error) {
	return std.Lookup(key)
}

func malformed(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
}
