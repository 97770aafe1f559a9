package codec

import (
	"reflect"

	cbor "github.com/fxamacker/cbor/v2"

	"github.com/tailored-agentic-units/statewire/serialization"
)

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR returns a canonical CBOR codec (RFC 8949 core deterministic
// encoding). Nested maps decode as map[string]any.
func CBOR() (Codec, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return nil, err
	}
	return cborCodec{enc: em, dec: dm}, nil
}

// MustCBOR is like CBOR but panics if the codec options are invalid.
func MustCBOR() Codec {
	c, err := CBOR()
	if err != nil {
		panic(err)
	}
	return c
}

func (cborCodec) Name() string        { return NameCBOR }
func (cborCodec) ContentType() string { return "application/cbor" }

func (c cborCodec) Marshal(doc serialization.Document) ([]byte, error) {
	return c.enc.Marshal(doc.Map())
}

func (c cborCodec) Unmarshal(data []byte) (serialization.Document, error) {
	var m map[string]any
	if err := c.dec.Unmarshal(data, &m); err != nil {
		return nil, malformed(NameCBOR, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return serialization.Document(m), nil
}
