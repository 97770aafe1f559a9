package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxSize is the largest encoded payload, in bytes, accepted by Encode and
// Decode.
const MaxSize = 16384

// Encode renders v as JSON. Object keys are sorted and HTML characters are
// left unescaped. A nil v encodes as "null". Strings and keys must be valid
// UTF-8.
func Encode(v Value) (string, error) {
	if err := checkUTF8(v); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(ToAny(v)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}

	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if len(out) > MaxSize {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(out), MaxSize)
	}
	return string(out), nil
}

// Decode parses a string produced by Encode. The size bound is checked
// before parsing. Trailing data after the first JSON value is rejected.
func Decode(s string) (Value, error) {
	if len(s) > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(s), MaxSize)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformed)
	}

	v, err := From(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

// EncodeAny converts v with From and encodes the result.
func EncodeAny(v any) (string, error) {
	conv, err := From(v)
	if err != nil {
		return "", err
	}
	return Encode(conv)
}
