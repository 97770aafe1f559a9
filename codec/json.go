package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/tailored-agentic-units/statewire/serialization"
)

type jsonCodec struct{}

// JSON returns a JSON codec. Numbers decode as json.Number so integers of
// any size survive.
func JSON() Codec { return jsonCodec{} }

func (jsonCodec) Name() string        { return NameJSON }
func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(doc serialization.Document) ([]byte, error) {
	return json.Marshal(doc)
}

func (jsonCodec) Unmarshal(data []byte) (serialization.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc serialization.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed(NameJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed(NameJSON, errors.New("trailing data"))
	}
	if doc == nil {
		doc = serialization.Document{}
	}
	return doc, nil
}
