package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tailored-agentic-units/statewire/serialization"
)

type msgpackCodec struct{}

// Msgpack returns a MessagePack codec.
func Msgpack() Codec { return msgpackCodec{} }

func (msgpackCodec) Name() string        { return NameMsgpack }
func (msgpackCodec) ContentType() string { return "application/msgpack" }

func (msgpackCodec) Marshal(doc serialization.Document) ([]byte, error) {
	return msgpack.Marshal(doc.Map())
}

func (msgpackCodec) Unmarshal(data []byte) (serialization.Document, error) {
	var m map[string]any
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, malformed(NameMsgpack, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return serialization.Document(m), nil
}
