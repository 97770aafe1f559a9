package serialization

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/tailored-agentic-units/statewire/payload"
	"github.com/tailored-agentic-units/statewire/state"
	"github.com/tailored-agentic-units/statewire/timestamp"
)

// FieldKind names the codec a field uses.
type FieldKind string

const (
	FieldString    FieldKind = "string"
	FieldPayload   FieldKind = "payload"
	FieldTimestamp FieldKind = "timestamp"
	FieldInteger   FieldKind = "integer"
	FieldState     FieldKind = "state"
)

// field is a codec bound to one field of one state value. dump reads
// through the pointer; load writes through it.
type field struct {
	name string
	kind FieldKind
	dump func() (any, error)
	load func(raw any) error
}

// nester dumps and loads nested states.
type nester interface {
	dump(s state.State) (Document, error)
	load(doc Document) (state.State, error)
}

func stringField(name string, ptr **string) field {
	return field{
		name: name,
		kind: FieldString,
		dump: func() (any, error) {
			if *ptr == nil {
				return nil, nil
			}
			return **ptr, nil
		},
		load: func(raw any) error {
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("%w: want string, got %T", ErrInvalidField, raw)
			}
			*ptr = &s
			return nil
		},
	}
}

func payloadField(name string, ptr *payload.Value) field {
	return field{
		name: name,
		kind: FieldPayload,
		dump: func() (any, error) {
			if payload.IsNull(*ptr) {
				return nil, nil
			}
			return payload.Encode(*ptr)
		},
		load: func(raw any) error {
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("%w: want JSON string, got %T", ErrInvalidField, raw)
			}
			v, err := payload.Decode(s)
			if err != nil {
				return err
			}
			*ptr = v
			return nil
		},
	}
}

func timeField(name string, ptr **time.Time) field {
	return field{
		name: name,
		kind: FieldTimestamp,
		dump: func() (any, error) {
			if *ptr == nil {
				return nil, nil
			}
			return timestamp.Encode(**ptr)
		},
		load: func(raw any) error {
			var t time.Time
			switch tv := raw.(type) {
			case string:
				decoded, err := timestamp.Decode(tv)
				if err != nil {
					return err
				}
				t = decoded
			case time.Time:
				t = tv.UTC()
			default:
				return fmt.Errorf("%w: want timestamp string, got %T", ErrInvalidField, raw)
			}
			*ptr = &t
			return nil
		},
	}
}

func intField(name string, ptr *int) field {
	return field{
		name: name,
		kind: FieldInteger,
		dump: func() (any, error) {
			return *ptr, nil
		},
		load: func(raw any) error {
			n, err := toInt(raw)
			if err != nil {
				return err
			}
			*ptr = n
			return nil
		},
	}
}

func cachedField(name string, ptr **state.CachedState, n nester) field {
	return field{
		name: name,
		kind: FieldState,
		dump: func() (any, error) {
			if *ptr == nil {
				return nil, nil
			}
			return n.dump(*ptr)
		},
		load: func(raw any) error {
			doc, ok := asDocument(raw)
			if !ok {
				return fmt.Errorf("%w: want nested document, got %T", ErrInvalidField, raw)
			}
			loaded, err := n.load(doc)
			if err != nil {
				return err
			}
			cached, ok := loaded.(*state.CachedState)
			if !ok {
				return fmt.Errorf("%w: want %s, got %s", ErrInvalidField, state.KindCachedState, loaded.Kind())
			}
			*ptr = cached
			return nil
		},
	}
}

// toInt accepts the integer representations produced by the JSON, CBOR,
// msgpack and protobuf decoders.
func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return intFrom64(v)
	case uint:
		return uintToInt(uint64(v))
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return uintToInt(uint64(v))
	case uint64:
		return uintToInt(v)
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return intFrom64(i)
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidField, v)
		}
		return floatToInt(f)
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrInvalidField, raw)
	}
}

func intFrom64(v int64) (int, error) {
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("%w: %d overflows int", ErrInvalidField, v)
	}
	return int(v), nil
}

func uintToInt(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, fmt.Errorf("%w: %d overflows int", ErrInvalidField, v)
	}
	return int(v), nil
}

// float64(math.MaxInt) rounds up to 2^63; -float64(math.MinInt) is the
// exact exclusive upper bound.
func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) || f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidField, f)
	}
	return int(f), nil
}
