package payload

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
)

// Value is a JSON-representable payload. Implementations are limited to the
// types declared in this package. A nil Value is treated as Null.
type Value interface {
	isValue()
}

// Null is the JSON null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number kept as its literal text, so integers wider than
// a float64 mantissa survive a round trip.
type Number string

// String is a JSON string.
type String string

// List is an ordered JSON array.
type List []Value

// Map is a JSON object with string keys.
type Map map[string]Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (List) isValue()   {}
func (Map) isValue()    {}

// Int returns the Number for an integer.
func Int(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

// Uint returns the Number for an unsigned integer.
func Uint(u uint64) Number {
	return Number(strconv.FormatUint(u, 10))
}

// Float returns the Number for a float. NaN and infinities produce a Number
// that Encode rejects with ErrNotSerializable.
func Float(f float64) Number {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// Float64 parses the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 parses the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

func (n Number) big() (*big.Float, bool) {
	f, ok := new(big.Float).SetString(string(n))
	return f, ok
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Equal reports whether a and b hold the same JSON value. Map key order is
// irrelevant and numbers compare by numeric value, so 1, 1.0 and 1e0 are equal.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}

	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		af, aok := av.big()
		bf, bok := bv.big()
		return aok && bok && af.Cmp(bf) == 0
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, exists := bv[k]
			if !exists || !Equal(x, y) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ToAny converts v to native Go values: nil, bool, json.Number, string,
// []any and map[string]any.
func ToAny(v Value) any {
	switch tv := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(tv)
	case Number:
		return json.Number(tv)
	case String:
		return string(tv)
	case List:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = ToAny(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = ToAny(item)
		}
		return out
	default:
		return nil
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
