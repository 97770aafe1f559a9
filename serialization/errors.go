package serialization

import (
	"errors"
	"fmt"
)

// Sentinel errors for dumping and loading states.
var (
	ErrMissingTypeTag        = errors.New("document has no type tag")
	ErrUnknownTypeTag        = errors.New("unknown type tag")
	ErrInvalidField          = errors.New("invalid field value")
	ErrNilState              = errors.New("state is nil")
	ErrDuplicateRegistration = errors.New("type tag already registered")
	ErrInvalidDescriptor     = errors.New("invalid variant descriptor")
)

// FieldError reports the field whose codec failed during Dump or Load.
// The underlying codec error is available through errors.Is and errors.As.
type FieldError struct {
	Tag   string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Tag, e.Field, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *FieldError) Unwrap() error {
	return e.Err
}
