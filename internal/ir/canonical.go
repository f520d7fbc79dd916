package ir

import (
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey returns key in Unicode NFC form.
// Column names typed on different systems may arrive decomposed; normalizing
// at decode time keeps symbol matching and duplicate detection byte-exact.
func NormalizeKey(key string) string {
	return norm.NFC.String(key)
}

// sortKeysRFC8785 sorts keys in place by UTF-16 code units.
func sortKeysRFC8785(keys []string) {
	slices.SortFunc(keys, compareKeysRFC8785)
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
// CRITICAL: Go's default string comparison uses UTF-8 which produces DIFFERENT order.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// If all compared units are equal, shorter string comes first
	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// Render returns compact JSON for v, keeping object key order.
// Intended for diagnostics; values that cannot be marshaled fall back to
// their Go representation.
func Render(v IRValue) string {
	data, err := MarshalIRValue(v)
	if err != nil {
		return KindOf(v)
	}
	return string(data)
}
