package ir

import (
	"fmt"
	"time"
)

// IRValue is a sealed interface representing a DSL value.
// Only IRNull, IRString, IRInt, IRFloat, IRBool, IRTime, IRArray and IRObject
// implement it.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents a JSON/YAML null value.
// Using an explicit type ensures all IRValues satisfy the sealed interface.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a string value.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// IRFloat represents a non-integral number.
type IRFloat float64

func (IRFloat) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRTime represents a date or timestamp value.
type IRTime time.Time

func (IRTime) irValue() {}

// Time returns the underlying time.Time.
func (t IRTime) Time() time.Time {
	return time.Time(t)
}

// IRArray represents a sequence of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRPair is one key-value entry of an IRObject.
type IRPair struct {
	Key   string
	Value IRValue
}

// IRObject represents an ordered mapping of unique string keys to IRValue
// elements. Iteration order is insertion order.
type IRObject []IRPair

func (IRObject) irValue() {}

// NewIRString creates an IRString value.
func NewIRString(s string) IRString {
	return IRString(s)
}

// NewIRInt creates an IRInt value.
func NewIRInt(n int64) IRInt {
	return IRInt(n)
}

// NewIRBool creates an IRBool value.
func NewIRBool(b bool) IRBool {
	return IRBool(b)
}

// NewIRArray creates an IRArray from values.
func NewIRArray(vals ...IRValue) IRArray {
	return IRArray(vals)
}

// NewIRObjectFromPairs creates an IRObject from key-value pairs, keeping their
// order. A repeated key keeps its first position and takes the last value.
// Example: NewIRObjectFromPairs(O("status", NewIRString("active")), O("visits", NewIRInt(5)))
func NewIRObjectFromPairs(pairs ...IRPair) IRObject {
	obj := make(IRObject, 0, len(pairs))
	for _, p := range pairs {
		obj = obj.With(p.Key, p.Value)
	}
	return obj
}

// O is a shorthand for IRPair for ergonomic construction.
func O(key string, value IRValue) IRPair {
	return IRPair{Key: key, Value: value}
}

// Len returns the number of entries.
func (obj IRObject) Len() int {
	return len(obj)
}

// Keys returns the keys in insertion order.
func (obj IRObject) Keys() []string {
	keys := make([]string, len(obj))
	for i, p := range obj {
		keys[i] = p.Key
	}
	return keys
}

// Get returns the value stored under key.
func (obj IRObject) Get(key string) (IRValue, bool) {
	for _, p := range obj {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (obj IRObject) Has(key string) bool {
	_, ok := obj.Get(key)
	return ok
}

// With returns a copy of obj where key maps to value. An existing key keeps
// its position; a new key is appended.
func (obj IRObject) With(key string, value IRValue) IRObject {
	out := make(IRObject, len(obj), len(obj)+1)
	copy(out, obj)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, IRPair{Key: key, Value: value})
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
func (obj IRObject) SortedKeys() []string {
	keys := obj.Keys()
	sortKeysRFC8785(keys)
	return keys
}

// IsScalar reports whether v is neither an IRArray nor an IRObject.
func IsScalar(v IRValue) bool {
	switch v.(type) {
	case IRArray, IRObject:
		return false
	default:
		return v != nil
	}
}

// IsNull reports whether v is nil or IRNull.
func IsNull(v IRValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(IRNull)
	return ok
}

// KindOf returns a short, human-readable name of v's shape for diagnostics.
func KindOf(v IRValue) string {
	switch v.(type) {
	case nil, IRNull:
		return "null"
	case IRString:
		return "string"
	case IRInt, IRFloat:
		return "number"
	case IRBool:
		return "boolean"
	case IRTime:
		return "time"
	case IRArray:
		return "array"
	case IRObject:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
