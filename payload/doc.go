// Package payload encodes arbitrary JSON-representable values carried by
// states (results, cached inputs, cached parameters) to and from size-bounded
// strings.
//
// A payload is modeled as a closed sum type:
//
//	Null | Bool | Number | String | List | Map
//
// Native Go values enter through From and leave through ToAny. Encoded
// payloads never exceed MaxSize bytes; the bound is enforced identically by
// Encode and Decode so a document that was dumped can always be loaded.
//
//	v, err := payload.From(map[string]any{"x": 1})
//	s, err := payload.Encode(v)   // `{"x":1}`
//	back, err := payload.Decode(s)
//	payload.Equal(v, back)        // true
package payload
