package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/statewire/serialization"
)

type protoCodec struct {
	mo proto.MarshalOptions
	uo proto.UnmarshalOptions
}

// Proto returns a codec that carries documents as google.protobuf.Struct
// messages with deterministic marshaling. Numbers travel as doubles.
func Proto() Codec {
	return protoCodec{
		mo: proto.MarshalOptions{Deterministic: true},
		uo: proto.UnmarshalOptions{},
	}
}

func (protoCodec) Name() string        { return NameProto }
func (protoCodec) ContentType() string { return "application/x-protobuf" }

func (p protoCodec) Marshal(doc serialization.Document) ([]byte, error) {
	s, err := ToStruct(doc)
	if err != nil {
		return nil, err
	}
	return p.mo.Marshal(s)
}

func (p protoCodec) Unmarshal(data []byte) (serialization.Document, error) {
	var s structpb.Struct
	if err := p.uo.Unmarshal(data, &s); err != nil {
		return nil, malformed(NameProto, err)
	}
	return FromStruct(&s), nil
}

// ToStruct converts a document to a protobuf Struct.
func ToStruct(doc serialization.Document) (*structpb.Struct, error) {
	return structpb.NewStruct(doc.Map())
}

// FromStruct converts a protobuf Struct to a document.
func FromStruct(s *structpb.Struct) serialization.Document {
	m := s.AsMap()
	if m == nil {
		m = map[string]any{}
	}
	return serialization.Document(m)
}
