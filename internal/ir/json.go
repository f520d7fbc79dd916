package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// UnmarshalIRValue decodes a single JSON document into an IRValue.
//
// Unlike encoding/json into map[string]any, object key order is preserved.
// Integral numbers become IRInt, others IRFloat. Duplicate keys are rejected.
func UnmarshalIRValue(data []byte) (IRValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (IRValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return IRNull{}, nil
	case bool:
		return IRBool(t), nil
	case string:
		return IRString(t), nil
	case json.Number:
		return parseNumber(string(t))
	case json.Delim:
		switch t {
		case '[':
			return decodeJSONArray(dec)
		case '{':
			return decodeJSONObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func decodeJSONArray(dec *json.Decoder) (IRValue, error) {
	arr := IRArray{}
	for dec.More() {
		elem, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", len(arr), err)
		}
		arr = append(arr, elem)
	}
	// Consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeJSONObject(dec *json.Decoder) (IRValue, error) {
	obj := IRObject{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		key = NormalizeKey(key)
		if obj.Has(key) {
			return nil, fmt.Errorf("duplicate object key %q", key)
		}

		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", key, err)
		}
		obj = append(obj, IRPair{Key: key, Value: val})
	}
	// Consume closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// parseNumber converts a JSON number literal to IRInt when integral.
func parseNumber(s string) (IRValue, error) {
	if !strings.ContainsAny(s, ".eE") {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return IRInt(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %s: %w", s, err)
	}
	return IRFloat(f), nil
}

// UnmarshalJSON implements json.Unmarshaler for IRObject.
func (obj *IRObject) UnmarshalJSON(data []byte) error {
	v, err := UnmarshalIRValue(data)
	if err != nil {
		return err
	}
	o, ok := v.(IRObject)
	if !ok {
		return fmt.Errorf("expected JSON object, got %s", KindOf(v))
	}
	*obj = o
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for IRArray.
func (arr *IRArray) UnmarshalJSON(data []byte) error {
	v, err := UnmarshalIRValue(data)
	if err != nil {
		return err
	}
	a, ok := v.(IRArray)
	if !ok {
		return fmt.Errorf("expected JSON array, got %s", KindOf(v))
	}
	*arr = a
	return nil
}

// MarshalJSON implements json.Marshaler for IRObject, keeping key order.
func (obj IRObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, p := range obj {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := marshalString(p.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", p.Key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalIRValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", p.Key, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for IRArray.
func (arr IRArray) MarshalJSON() ([]byte, error) {
	return marshalIRArray(arr)
}

// MarshalJSON implements json.Marshaler for IRNull.
func (IRNull) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON implements json.Marshaler for IRTime (RFC 3339).
func (t IRTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// MarshalIRValue marshals an IRValue to JSON bytes.
// Uses type-switch dispatch to handle all IRValue types correctly.
func MarshalIRValue(v IRValue) ([]byte, error) {
	switch val := v.(type) {
	case nil, IRNull:
		return []byte("null"), nil
	case IRString:
		return marshalString(string(val))
	case IRInt:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case IRFloat:
		return json.Marshal(float64(val))
	case IRBool:
		return json.Marshal(bool(val))
	case IRTime:
		return val.MarshalJSON()
	case IRArray:
		return marshalIRArray(val)
	case IRObject:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown IRValue type: %T", v)
	}
}

// marshalIRArray marshals an IRArray to JSON bytes.
func marshalIRArray(arr IRArray) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalIRValue(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// marshalString encodes s without HTML escaping so LIKE patterns and
// comparison operators stay readable in diagnostics.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
