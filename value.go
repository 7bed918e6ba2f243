package appstate

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the native representation carried by a Value.
type Kind uint8

const (
	// KindInvalid marks the zero Value, used as the "no value" marker.
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "invalid"
	}
}

// Value is an immutable tagged scalar visible to the scripting host. Replacing
// a variable replaces its Value; a Value is never mutated in place. The zero
// Value carries no data and acts as the null marker accepted by Set.
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int64
	f    float64
}

// String wraps a native string.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool wraps a native boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int wraps a native integer.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float wraps a native float.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// FromNative wraps an arbitrary scalar produced by an embedding engine. Nil
// maps to the zero Value so hosts can pass script nulls straight through.
func FromNative(value any) (Value, error) {
	switch typed := value.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return typed, nil
	case string:
		return String(typed), nil
	case bool:
		return Bool(typed), nil
	case int:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case uint:
		return Int(int64(typed)), nil
	case uint32:
		return Int(int64(typed)), nil
	case uint64:
		return Int(int64(typed)), nil
	case float32:
		return Float(float64(typed)), nil
	case float64:
		return Float(typed), nil
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := typed.Float64()
		if err != nil {
			return Value{}, &CoercionError{From: KindString, To: KindFloat, Raw: typed.String(), Cause: err}
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("appstate: unsupported native value %T", value)
	}
}

// Kind reports the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the "no value" marker.
func (v Value) IsZero() bool {
	return v.kind == KindInvalid
}

// String returns the canonical textual form. It never fails; numeric and
// boolean variants format using locale-independent strconv rules.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return ""
	}
}

// AsBool coerces v to a boolean. Nonzero numbers map to true; string variants
// must parse as a boolean literal.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i != 0, nil
	case KindFloat:
		return v.f != 0, nil
	case KindString:
		parsed, err := strconv.ParseBool(v.str)
		if err != nil {
			return false, &CoercionError{From: KindString, To: KindBool, Raw: v.str, Cause: err}
		}
		return parsed, nil
	default:
		return false, &CoercionError{From: v.kind, To: KindBool}
	}
}

// AsInt coerces v to an integer. Floats truncate toward zero and never fail;
// string variants must parse as a base-10 integer literal.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindFloat:
		return int64(v.f), nil
	case KindString:
		parsed, err := strconv.ParseInt(v.str, 10, 64)
		if err != nil {
			return 0, &CoercionError{From: KindString, To: KindInt, Raw: v.str, Cause: err}
		}
		return parsed, nil
	default:
		return 0, &CoercionError{From: v.kind, To: KindInt}
	}
}

// AsFloat coerces v to a float. Integers widen; string variants must parse as
// a floating point literal.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		parsed, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0, &CoercionError{From: KindString, To: KindFloat, Raw: v.str, Cause: err}
		}
		return parsed, nil
	default:
		return 0, &CoercionError{From: v.kind, To: KindFloat}
	}
}

// Native unwraps the underlying scalar for handing to an embedding engine.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return nil
	}
}

// Equal reports whether two values share both tag and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}
