package bitstream

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidHex is returned when transmission text contains a non-hex digit.
var ErrInvalidHex = errors.New("bitstream: invalid hex digit")

const hexDigits = "0123456789ABCDEF"

// ExpandHex converts hexadecimal transmission text into a bit string.
// Surrounding whitespace is not part of the transmission and is dropped.
// Letters are accepted in either case.
func ExpandHex(text string) (string, error) {
	text = strings.TrimSpace(text)

	var b strings.Builder
	b.Grow(len(text) * 4)
	for i := 0; i < len(text); i++ {
		nibble, ok := hexValue(text[i])
		if !ok {
			return "", fmt.Errorf("%w: %q at index %d", ErrInvalidHex, text[i], i)
		}
		for shift := 3; shift >= 0; shift-- {
			b.WriteByte('0' + (nibble>>shift)&1)
		}
	}
	return b.String(), nil
}

// CompactHex converts a bit string back to uppercase hex.
// The final group is zero-padded to a 4-bit boundary.
func CompactHex(bits string) (string, error) {
	if _, err := NewCursor(bits); err != nil {
		return "", err
	}
	if rem := len(bits) % 4; rem != 0 {
		bits += strings.Repeat("0", 4-rem)
	}

	var b strings.Builder
	b.Grow(len(bits) / 4)
	for i := 0; i < len(bits); i += 4 {
		var nibble byte
		for _, c := range []byte(bits[i : i+4]) {
			nibble = nibble<<1 | (c - '0')
		}
		b.WriteByte(hexDigits[nibble])
	}
	return b.String(), nil
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
