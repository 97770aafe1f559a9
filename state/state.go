package state

import (
	"fmt"
	"reflect"
	"time"

	"github.com/tailored-agentic-units/statewire/payload"
)

// Kind is the type tag of a variant.
type Kind string

const (
	KindPending       Kind = "Pending"
	KindCachedState   Kind = "CachedState"
	KindPaused        Kind = "Paused"
	KindScheduled     Kind = "Scheduled"
	KindRetrying      Kind = "Retrying"
	KindRunning       Kind = "Running"
	KindFinished      Kind = "Finished"
	KindSuccess       Kind = "Success"
	KindSkipped       Kind = "Skipped"
	KindFailed        Kind = "Failed"
	KindTimedOut      Kind = "TimedOut"
	KindTriggerFailed Kind = "TriggerFailed"
)

var kinds = []Kind{
	KindPending,
	KindCachedState,
	KindPaused,
	KindScheduled,
	KindRetrying,
	KindRunning,
	KindFinished,
	KindSuccess,
	KindSkipped,
	KindFailed,
	KindTimedOut,
	KindTriggerFailed,
}

// Kinds returns every variant tag.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k names a variant.
func (k Kind) Valid() bool {
	_, ok := parents[k]
	return ok
}

// State is a snapshot of a work unit's status. Only pointers to the variant
// types of this package implement it.
type State interface {
	// Kind returns the exact variant tag, never that of an ancestor.
	Kind() Kind
	// Common exposes the fields shared by all variants.
	Common() *Base
	// Accept dispatches to the Visitor method for the concrete variant.
	Accept(v Visitor)

	sealed()
}

// Base holds the fields every variant carries. A nil Message or Result
// means the field is absent.
type Base struct {
	Message *string
	Result  payload.Value
}

// Common returns b.
func (b *Base) Common() *Base { return b }

// IsNil reports whether s is nil or a nil pointer to a variant.
func IsNil(s State) bool {
	if s == nil {
		return true
	}
	rv := reflect.ValueOf(s)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Msg returns a pointer to message, for populating Base.Message.
func Msg(message string) *string { return &message }

// At returns a pointer to t, for populating optional timestamp fields.
func At(t time.Time) *time.Time { return &t }

// New returns a variant of the given kind with every field at its default.
func New(kind Kind) (State, error) {
	switch kind {
	case KindPending:
		return &Pending{}, nil
	case KindCachedState:
		return &CachedState{}, nil
	case KindPaused:
		return &Paused{}, nil
	case KindScheduled:
		return &Scheduled{}, nil
	case KindRetrying:
		return &Retrying{}, nil
	case KindRunning:
		return &Running{}, nil
	case KindFinished:
		return &Finished{}, nil
	case KindSuccess:
		return &Success{}, nil
	case KindSkipped:
		return &Skipped{}, nil
	case KindFailed:
		return &Failed{}, nil
	case KindTimedOut:
		return &TimedOut{}, nil
	case KindTriggerFailed:
		return &TriggerFailed{}, nil
	default:
		return nil, fmt.Errorf("unknown state kind: %q", kind)
	}
}

// String renders s as `Kind` or `Kind: "message"`.
func String(s State) string {
	if IsNil(s) {
		return "<nil>"
	}
	if msg := s.Common().Message; msg != nil {
		return fmt.Sprintf("%s: %q", s.Kind(), *msg)
	}
	return string(s.Kind())
}
