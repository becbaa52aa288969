package bitstream

import (
	"errors"
	"fmt"
)

// MaxReadBits is the widest fixed-width read a Cursor supports.
const MaxReadBits = 64

var (
	// ErrInsufficientBits is returned when a read asks for more bits than remain.
	ErrInsufficientBits = errors.New("bitstream: insufficient bits")

	// ErrCountRange is returned when a fixed-width read is outside 0..MaxReadBits.
	ErrCountRange = errors.New("bitstream: bit count out of range")

	// ErrInvalidBit is returned when a bit string contains anything but '0' or '1'.
	ErrInvalidBit = errors.New("bitstream: invalid bit character")
)

// Cursor provides sequential, non-backtracking reads over a bit string.
//
// Bits are consumed MSB-first. The position only moves forward, and only by
// the number of bits a read consumed. A Cursor carved with Sub remembers where
// it started in its parent so Offset reports positions in the root stream.
type Cursor struct {
	bits     string
	position int
	base     int
}

// NewCursor creates a cursor over a string of '0'/'1' characters.
func NewCursor(bits string) (*Cursor, error) {
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return nil, fmt.Errorf("%w: %q at bit %d", ErrInvalidBit, bits[i], i)
		}
	}
	return &Cursor{bits: bits}, nil
}

// Len returns the total number of bits backing the cursor.
func (c *Cursor) Len() int {
	return len(c.bits)
}

// Position returns the number of bits consumed so far.
func (c *Cursor) Position() int {
	return c.position
}

// Offset returns the absolute position in the root stream.
func (c *Cursor) Offset() int {
	return c.base + c.position
}

// Remaining returns the number of unread bits.
func (c *Cursor) Remaining() int {
	return len(c.bits) - c.position
}

// ReadBits consumes n bits and returns them as an unsigned integer.
// Reading zero bits returns 0 and does not move the cursor.
func (c *Cursor) ReadBits(n int) (uint64, error) {
	if n < 0 || n > MaxReadBits {
		return 0, fmt.Errorf("%w: %d", ErrCountRange, n)
	}
	if err := c.require(n); err != nil {
		return 0, err
	}

	var v uint64
	for _, b := range []byte(c.bits[c.position : c.position+n]) {
		v = v<<1 | uint64(b-'0')
	}
	c.position += n
	return v, nil
}

// ReadBit consumes a single bit.
func (c *Cursor) ReadBit() (bool, error) {
	v, err := c.ReadBits(1)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// ReadRaw consumes n bits and returns them uninterpreted.
func (c *Cursor) ReadRaw(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: %d", ErrCountRange, n)
	}
	if err := c.require(n); err != nil {
		return "", err
	}
	raw := c.bits[c.position : c.position+n]
	c.position += n
	return raw, nil
}

// Sub carves the next n bits into an independent cursor.
// The parent advances past the carved region immediately.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	start := c.Offset()
	raw, err := c.ReadRaw(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{bits: raw, base: start}, nil
}

func (c *Cursor) require(n int) error {
	if have := c.Remaining(); n > have {
		return fmt.Errorf("%w: need %d, have %d at bit %d", ErrInsufficientBits, n, have, c.Offset())
	}
	return nil
}
