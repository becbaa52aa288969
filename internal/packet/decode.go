package packet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/bits/internal/bitstream"
)

// Field widths fixed by the wire format.
const (
	versionBits     = 3
	typeIDBits      = 3
	groupDataBits   = 4
	totalLengthBits = 15
	countBits       = 11

	// MinPacketBits is the size of the smallest possible packet:
	// a header followed by a single literal group.
	MinPacketBits = versionBits + typeIDBits + 1 + groupDataBits
)

// StopFunc decides when DecodeList stops. It is consulted before each packet
// with the number of packets decoded so far.
type StopFunc func(decoded int, c *bitstream.Cursor) (bool, error)

// UntilCount stops after exactly n packets.
func UntilCount(n int) StopFunc {
	return func(decoded int, _ *bitstream.Cursor) (bool, error) {
		return decoded >= n, nil
	}
}

// UntilExhausted stops when the cursor has no bits left. Leftover bits too
// short to hold a packet are reported as UNEXPECTED_TRAILING_BITS.
func UntilExhausted() StopFunc {
	return func(_ int, c *bitstream.Cursor) (bool, error) {
		rem := c.Remaining()
		if rem == 0 {
			return true, nil
		}
		if rem < MinPacketBits {
			return false, newError(ErrCodeUnexpectedTrailingBits, c.Offset(),
				fmt.Sprintf("%d bits left over after last sub-packet", rem), nil)
		}
		return false, nil
	}
}

// Decoder decodes packets under a fixed set of limits.
// A Decoder holds no per-call state and is safe for concurrent use.
type Decoder struct {
	limits Limits
}

// NewDecoder creates a decoder. Non-positive limit fields fall back to
// DefaultLimits.
func NewDecoder(limits Limits) *Decoder {
	def := DefaultLimits()
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = def.MaxDepth
	}
	if limits.MaxPackets <= 0 {
		limits.MaxPackets = def.MaxPackets
	}
	if limits.MaxInputBits <= 0 {
		limits.MaxInputBits = def.MaxInputBits
	}
	return &Decoder{limits: limits}
}

// Limits returns the effective limits.
func (d *Decoder) Limits() Limits {
	return d.limits
}

// Decode decodes one packet starting at the cursor's position.
// Bits after the packet are left unread; hex padding lives there.
func (d *Decoder) Decode(c *bitstream.Cursor) (Packet, error) {
	if err := d.checkInput(c); err != nil {
		return Packet{}, err
	}
	return d.decodePacket(c, newQuota(d.limits), 1)
}

// DecodeList decodes consecutive packets until stop reports done.
func (d *Decoder) DecodeList(c *bitstream.Cursor, stop StopFunc) ([]Packet, error) {
	if err := d.checkInput(c); err != nil {
		return nil, err
	}
	return d.decodeList(c, stop, newQuota(d.limits), 1)
}

// DecodeString decodes one packet from a '0'/'1' string.
func (d *Decoder) DecodeString(bits string) (Packet, error) {
	c, err := bitstream.NewCursor(bits)
	if err != nil {
		return Packet{}, newError(ErrCodeInvalidBit, 0, "malformed bit string", err)
	}
	return d.Decode(c)
}

// DecodeHex decodes one packet from hexadecimal transmission text.
func (d *Decoder) DecodeHex(text string) (Packet, error) {
	if n := len(strings.TrimSpace(text)) * 4; n > d.limits.MaxInputBits {
		return Packet{}, tooLarge(n, d.limits.MaxInputBits)
	}
	bits, err := bitstream.ExpandHex(text)
	if err != nil {
		return Packet{}, newError(ErrCodeInvalidHex, 0, "malformed transmission", err)
	}
	return d.DecodeString(bits)
}

// Decode decodes a bit string with DefaultLimits.
func Decode(bits string) (Packet, error) {
	return NewDecoder(DefaultLimits()).DecodeString(bits)
}

// DecodeHex decodes hexadecimal transmission text with DefaultLimits.
func DecodeHex(text string) (Packet, error) {
	return NewDecoder(DefaultLimits()).DecodeHex(text)
}

func (d *Decoder) checkInput(c *bitstream.Cursor) error {
	if n := c.Remaining(); n > d.limits.MaxInputBits {
		return tooLarge(n, d.limits.MaxInputBits)
	}
	return nil
}

func (d *Decoder) decodePacket(c *bitstream.Cursor, q *quota, depth int) (Packet, error) {
	start := c.Offset()
	if err := q.enter(depth, start); err != nil {
		return Packet{}, err
	}

	version, err := c.ReadBits(versionBits)
	if err != nil {
		return Packet{}, readError(c, "version", err)
	}
	typeID, err := c.ReadBits(typeIDBits)
	if err != nil {
		return Packet{}, readError(c, "type id", err)
	}

	if typeID == TypeIDLiteral {
		value, err := decodeLiteral(c)
		if err != nil {
			return Packet{}, err
		}
		return NewLiteral(uint8(version), value), nil
	}

	kind, err := KindFromTypeID(typeID)
	if err != nil {
		return Packet{}, newError(ErrCodeUnknownTypeID, start, err.Error(), nil)
	}
	op, err := d.decodeOperator(c, kind, q, depth)
	if err != nil {
		return Packet{}, err
	}
	return Packet{Version: uint8(version), Payload: op}, nil
}

// decodeLiteral accumulates 4-bit groups until a group with a clear
// continuation flag. Values wider than 64 bits are rejected.
func decodeLiteral(c *bitstream.Cursor) (uint64, error) {
	start := c.Offset()
	var value uint64
	for {
		more, err := c.ReadBit()
		if err != nil {
			return 0, readError(c, "literal group flag", err)
		}
		group, err := c.ReadBits(groupDataBits)
		if err != nil {
			return 0, readError(c, "literal group", err)
		}
		if value>>(64-groupDataBits) != 0 {
			return 0, newError(ErrCodeLiteralOverflow, start, "literal value exceeds 64 bits", nil)
		}
		value = value<<groupDataBits | group
		if !more {
			return value, nil
		}
	}
}

func (d *Decoder) decodeOperator(c *bitstream.Cursor, kind Kind, q *quota, depth int) (Operator, error) {
	start := c.Offset()
	byCount, err := c.ReadBit()
	if err != nil {
		return Operator{}, readError(c, "length type", err)
	}

	op := Operator{Kind: kind}
	if !byCount {
		total, err := c.ReadBits(totalLengthBits)
		if err != nil {
			return Operator{}, readError(c, "total length", err)
		}
		sub, err := c.Sub(int(total))
		if err != nil {
			return Operator{}, readError(c, fmt.Sprintf("%d bits of sub-packets", total), err)
		}
		op.Framing = FramingLength
		op.Children, err = d.decodeList(sub, UntilExhausted(), q, depth+1)
		if err != nil {
			return Operator{}, err
		}
	} else {
		count, err := c.ReadBits(countBits)
		if err != nil {
			return Operator{}, readError(c, "sub-packet count", err)
		}
		op.Framing = FramingCount
		op.Children, err = d.decodeList(c, UntilCount(int(count)), q, depth+1)
		if err != nil {
			return Operator{}, err
		}
	}

	if err := checkArity(kind, len(op.Children), start); err != nil {
		return Operator{}, err
	}
	return op, nil
}

func (d *Decoder) decodeList(c *bitstream.Cursor, stop StopFunc, q *quota, depth int) ([]Packet, error) {
	var packets []Packet
	for {
		done, err := stop(len(packets), c)
		if err != nil {
			return nil, err
		}
		if done {
			return packets, nil
		}
		p, err := d.decodePacket(c, q, depth)
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
}

func checkArity(kind Kind, n, offset int) error {
	if n == 0 {
		return newError(ErrCodeEmptyOperator, offset,
			fmt.Sprintf("%s operator has no sub-packets", kind), nil)
	}
	if kind.IsComparison() && n != 2 {
		return newError(ErrCodeArityMismatch, offset,
			fmt.Sprintf("%s operator needs 2 sub-packets, got %d", kind, n), nil)
	}
	return nil
}

func readError(c *bitstream.Cursor, field string, err error) error {
	if errors.Is(err, bitstream.ErrInsufficientBits) {
		return newError(ErrCodeInsufficientBits, c.Offset(), "reading "+field, err)
	}
	return fmt.Errorf("reading %s at bit %d: %w", field, c.Offset(), err)
}

func tooLarge(n, limit int) error {
	return newError(ErrCodeInputTooLarge, 0,
		fmt.Sprintf("%d bits > %d limit", n, limit), nil)
}
