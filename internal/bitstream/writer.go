package bitstream

import (
	"fmt"
	"strings"
)

// Writer appends bits MSB-first. The zero value is ready to use.
type Writer struct {
	buf strings.Builder
}

// WriteBits appends the low n bits of v, most significant first.
// It fails if v does not fit in n bits.
func (w *Writer) WriteBits(v uint64, n int) error {
	if n < 0 || n > MaxReadBits {
		return fmt.Errorf("%w: %d", ErrCountRange, n)
	}
	if n < MaxReadBits && v>>uint(n) != 0 {
		return fmt.Errorf("bitstream: value %d does not fit in %d bits", v, n)
	}
	for shift := n - 1; shift >= 0; shift-- {
		w.buf.WriteByte('0' + byte(v>>uint(shift)&1))
	}
	return nil
}

// WriteRaw appends an already-formed bit string.
func (w *Writer) WriteRaw(bits string) error {
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return fmt.Errorf("%w: %q at bit %d", ErrInvalidBit, bits[i], i)
		}
	}
	w.buf.WriteString(bits)
	return nil
}

// Len returns the number of bits written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// String returns the written bits.
func (w *Writer) String() string {
	return w.buf.String()
}

// Hex returns the written bits as hex, zero-padded to a 4-bit boundary.
func (w *Writer) Hex() string {
	h, _ := CompactHex(w.buf.String())
	return h
}
