package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeyNFC(t *testing.T) {
	// "é" can be U+00E9 (NFC) or U+0065 U+0301 (NFD)
	composed := "caf\u00E9"
	decomposed := "cafe\u0301"

	assert.Equal(t, composed, NormalizeKey(decomposed))
	assert.Equal(t, composed, NormalizeKey(composed))
}

func TestCompareKeysRFC8785UTF16(t *testing.T) {
	// U+10000 encodes as 0xD800 0xDC00 in UTF-16, which sorts before U+E000.
	// UTF-8 byte order would put it after.
	assert.Equal(t, -1, compareKeysRFC8785("\U00010000", "\uE000"))
	assert.Equal(t, 1, compareKeysRFC8785("\uE000", "\U00010000"))
	assert.Equal(t, 0, compareKeysRFC8785("same", "same"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "ab"))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   IRValue
		want string
	}{
		{"string", IRString("hi"), `"hi"`},
		{"int", IRInt(-3), "-3"},
		{"null", IRNull{}, "null"},
		{"array", IRArray{IRInt(1), IRInt(2)}, "[1,2]"},
		{"object keeps order", IRObject{O("b", IRInt(1)), O("a", IRInt(2))}, `{"b":1,"a":2}`},
		{"no html escape", IRString("<a&b>"), `"<a&b>"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in))
		})
	}
}
