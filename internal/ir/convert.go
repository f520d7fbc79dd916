package ir

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

// FromGo converts a plain Go value into an IRValue.
//
// Supported inputs: nil, IRValue, string, bool, all integer and float kinds,
// time.Time, []byte (as string), slices/arrays of supported values, maps with
// string keys, and pointers to any of these. Map keys are sorted (RFC 8785)
// because Go maps carry no order; callers that need a specific key order
// should build an IRObject directly.
func FromGo(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case string:
		return IRString(val), nil
	case bool:
		return IRBool(val), nil
	case time.Time:
		return IRTime(val), nil
	case []byte:
		return IRString(string(val)), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IRInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("unsigned value %d overflows int64", u)
		}
		return IRInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return IRFloat(rv.Float()), nil
	case reflect.String:
		return IRString(rv.String()), nil
	case reflect.Bool:
		return IRBool(rv.Bool()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return IRNull{}, nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return IRNull{}, nil
		}
		arr := make(IRArray, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = elem
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key must be a string, got %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sortKeysRFC8785(keys)

		obj := make(IRObject, 0, len(keys))
		for _, k := range keys {
			elem, err := FromGo(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			key := NormalizeKey(k)
			if obj.Has(key) {
				return nil, fmt.Errorf("duplicate object key %q", key)
			}
			obj = append(obj, IRPair{Key: key, Value: elem})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// MustFromGo is like FromGo but panics on error. Intended for literals in
// tests and examples.
func MustFromGo(v any) IRValue {
	val, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return val
}

// ToParam converts a scalar IRValue to a database/sql driver argument.
// Arrays and objects are not directly supported as SQL parameters.
func ToParam(v IRValue) (any, error) {
	switch val := v.(type) {
	case nil, IRNull:
		return nil, nil
	case IRString:
		return string(val), nil
	case IRInt:
		return int64(val), nil
	case IRFloat:
		return float64(val), nil
	case IRBool:
		return bool(val), nil
	case IRTime:
		return time.Time(val), nil
	case IRArray:
		return nil, fmt.Errorf("IRArray cannot be used as SQL parameter directly")
	case IRObject:
		return nil, fmt.Errorf("IRObject cannot be used as SQL parameter directly")
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}

// FromColumn converts a value scanned from a database/sql row into an IRValue.
func FromColumn(v any) IRValue {
	switch val := v.(type) {
	case nil:
		return IRNull{}
	case int64:
		return IRInt(val)
	case float64:
		return IRFloat(val)
	case bool:
		return IRBool(val)
	case []byte:
		return IRString(string(val))
	case string:
		return IRString(val)
	case time.Time:
		return IRTime(val)
	default:
		if irv, err := FromGo(val); err == nil {
			return irv
		}
		return IRString(fmt.Sprint(val))
	}
}
