package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"
)

// From converts a native Go value into a Value.
//
// Accepted inputs are nil, booleans, strings, every integer and float kind,
// json.Number, json.RawMessage, types implementing json.Marshaler, pointers
// to any of these, and slices, arrays and string-keyed maps composed of them.
// Existing Values pass through unchanged. Anything else (structs without a
// MarshalJSON method, byte slices, channels, functions, complex numbers,
// non-string map keys, NaN or infinite floats) fails with ErrNotSerializable.
func From(v any) (Value, error) {
	switch tv := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return tv, nil
	case bool:
		return Bool(tv), nil
	case string:
		return fromString(tv)
	case json.Number:
		return fromLiteral(string(tv))
	case int:
		return Int(int64(tv)), nil
	case int8:
		return Int(int64(tv)), nil
	case int16:
		return Int(int64(tv)), nil
	case int32:
		return Int(int64(tv)), nil
	case int64:
		return Int(tv), nil
	case uint:
		return Uint(uint64(tv)), nil
	case uint8:
		return Uint(uint64(tv)), nil
	case uint16:
		return Uint(uint64(tv)), nil
	case uint32:
		return Uint(uint64(tv)), nil
	case uint64:
		return Uint(tv), nil
	case float32:
		return fromFloat(float64(tv))
	case float64:
		return fromFloat(tv)
	case []any:
		out := make(List, len(tv))
		for i, item := range tv {
			conv, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(Map, len(tv))
		for k, item := range tv {
			if err := checkKey(k); err != nil {
				return nil, err
			}
			conv, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = conv
		}
		return out, nil
	case []byte:
		return nil, fmt.Errorf("%w: byte slice", ErrNotSerializable)
	case json.RawMessage:
		return fromJSON(tv)
	case json.Marshaler:
		data, err := tv.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotSerializable, err)
		}
		return fromJSON(data)
	}

	return fromReflect(reflect.ValueOf(v))
}

// MustFrom is like From but panics on error. Intended for literals in tests
// and static tables.
func MustFrom(v any) Value {
	out, err := From(v)
	if err != nil {
		panic(err)
	}
	return out
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return From(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return fromString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float())
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, fmt.Errorf("%w: byte slice", ErrNotSerializable)
		}
		return fromSequence(rv)
	case reflect.Array:
		return fromSequence(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrNotSerializable, rv.Type().Key())
		}
		if rv.IsNil() {
			return Null{}, nil
		}
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			if err := checkKey(key); err != nil {
				return nil, err
			}
			conv, err := From(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSerializable, rv.Type())
	}
}

func fromSequence(rv reflect.Value) (Value, error) {
	out := make(List, rv.Len())
	for i := range rv.Len() {
		conv, err := From(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = conv
	}
	return out, nil
}

func fromString(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: invalid UTF-8 in %q", ErrNotSerializable, s)
	}
	return String(s), nil
}

func checkKey(k string) error {
	if !utf8.ValidString(k) {
		return fmt.Errorf("%w: invalid UTF-8 in key %q", ErrNotSerializable, k)
	}
	return nil
}

// checkUTF8 rejects strings and keys that JSON cannot carry unchanged.
func checkUTF8(v Value) error {
	switch tv := v.(type) {
	case String:
		if !utf8.ValidString(string(tv)) {
			return fmt.Errorf("%w: invalid UTF-8 in %q", ErrNotSerializable, string(tv))
		}
	case List:
		for i, item := range tv {
			if err := checkUTF8(item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
	case Map:
		for k, item := range tv {
			if err := checkKey(k); err != nil {
				return err
			}
			if err := checkUTF8(item); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
	}
	return nil
}

func fromFloat(f float64) (Value, error) {
	if !finite(f) {
		return nil, fmt.Errorf("%w: %v", ErrNotSerializable, f)
	}
	return Float(f), nil
}

func fromLiteral(lit string) (Value, error) {
	if !json.Valid([]byte(lit)) || lit == "" || (lit[0] != '-' && (lit[0] < '0' || lit[0] > '9')) {
		return nil, fmt.Errorf("%w: invalid number literal %q", ErrNotSerializable, lit)
	}
	return Number(lit), nil
}

func fromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}
	return From(raw)
}
