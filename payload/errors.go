package payload

import "errors"

// Sentinel errors for payload encoding and decoding.
var (
	ErrNotSerializable = errors.New("payload is not JSON serializable")
	ErrTooLarge        = errors.New("payload exceeds max size")
	ErrMalformed       = errors.New("malformed payload")
)
