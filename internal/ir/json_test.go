package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalIRValuePreservesKeyOrder(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(`{"z":1,"a":{"$or":[{"b":2},{"c":"x"}]},"m":null}`))
	require.NoError(t, err)

	obj, ok := v.(IRObject)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, _ := obj.Get("a")
	assert.Equal(t, IRObject{
		O("$or", IRArray{
			IRObject{O("b", IRInt(2))},
			IRObject{O("c", IRString("x"))},
		}),
	}, inner)

	m, _ := obj.Get("m")
	assert.Equal(t, IRNull{}, m)
}

func TestUnmarshalIRValueNumbers(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(`[1, -2, 3.5, 1e3, 9223372036854775807]`))
	require.NoError(t, err)
	assert.Equal(t, IRArray{IRInt(1), IRInt(-2), IRFloat(3.5), IRFloat(1000), IRInt(9223372036854775807)}, v)

	_, err = UnmarshalIRValue([]byte(`99999999999999999999`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "int64")
}

func TestUnmarshalIRValueRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate key", `{"a":1,"a":2}`},
		{"trailing data", `{"a":1} {"b":2}`},
		{"truncated", `{"a":`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalIRValue([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestUnmarshalIRValueNormalizesKeys(t *testing.T) {
	v, err := UnmarshalIRValue([]byte("{\"cafe\u0301\":1}"))
	require.NoError(t, err)
	assert.Equal(t, IRObject{O("caf\u00E9", IRInt(1))}, v)
}

func TestIRObjectJSONRoundTripKeepsOrder(t *testing.T) {
	input := `{"b":1,"a":[true,"x",null],"c":{"y":2,"x":1}}`

	var obj IRObject
	require.NoError(t, json.Unmarshal([]byte(input), &obj))

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestIRObjectUnmarshalJSONWrongShape(t *testing.T) {
	var obj IRObject
	err := json.Unmarshal([]byte(`[1]`), &obj)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON object")

	var arr IRArray
	err = json.Unmarshal([]byte(`{"a":1}`), &arr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON array")
}
