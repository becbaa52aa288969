package packet

import (
	"fmt"

	"github.com/roach88/bits/internal/bitstream"
)

const (
	maxVersion     = 1<<versionBits - 1
	maxTotalLength = 1<<totalLengthBits - 1
	maxCount       = 1<<countBits - 1
)

// Encode writes p in canonical wire layout: literals use the fewest groups
// that hold their value, and operators keep the framing they were decoded
// with. Decoding the result yields a tree equal to p.
func Encode(p Packet) (string, error) {
	var w bitstream.Writer
	if err := encodePacket(&w, p); err != nil {
		return "", err
	}
	return w.String(), nil
}

// EncodeHex is Encode followed by hex compaction with zero padding.
func EncodeHex(p Packet) (string, error) {
	var w bitstream.Writer
	if err := encodePacket(&w, p); err != nil {
		return "", err
	}
	return w.Hex(), nil
}

func encodePacket(w *bitstream.Writer, p Packet) error {
	if p.Version > maxVersion {
		return newError(ErrCodeEncodeRange, w.Len(),
			fmt.Sprintf("version %d does not fit in %d bits", p.Version, versionBits), nil)
	}

	switch pl := p.Payload.(type) {
	case Literal:
		if err := writeFields(w, uint64(p.Version), versionBits, TypeIDLiteral, typeIDBits); err != nil {
			return err
		}
		return encodeLiteral(w, pl.Value)
	case Operator:
		if !pl.Kind.Valid() {
			return newError(ErrCodeUnknownTypeID, w.Len(),
				fmt.Sprintf("operator %s has no type id", pl.Kind), nil)
		}
		if err := writeFields(w, uint64(p.Version), versionBits, pl.Kind.TypeID(), typeIDBits); err != nil {
			return err
		}
		return encodeOperator(w, pl)
	default:
		return newError(ErrCodeUnknownTypeID, w.Len(),
			fmt.Sprintf("payload %T has no type id", p.Payload), nil)
	}
}

func encodeLiteral(w *bitstream.Writer, v uint64) error {
	groups := 1
	for groups < 64/groupDataBits && v>>(groupDataBits*groups) != 0 {
		groups++
	}
	for i := groups - 1; i >= 0; i-- {
		var flag uint64
		if i > 0 {
			flag = 1
		}
		nibble := v >> (groupDataBits * i) & 0xF
		if err := writeFields(w, flag, 1, nibble, groupDataBits); err != nil {
			return err
		}
	}
	return nil
}

func encodeOperator(w *bitstream.Writer, op Operator) error {
	if err := checkArity(op.Kind, len(op.Children), w.Len()); err != nil {
		return err
	}

	switch op.Framing {
	case FramingLength:
		var sub bitstream.Writer
		for _, child := range op.Children {
			if err := encodePacket(&sub, child); err != nil {
				return err
			}
		}
		if sub.Len() > maxTotalLength {
			return newError(ErrCodeEncodeRange, w.Len(),
				fmt.Sprintf("%d bits of sub-packets exceed %d", sub.Len(), maxTotalLength), nil)
		}
		if err := writeFields(w, 0, 1, uint64(sub.Len()), totalLengthBits); err != nil {
			return err
		}
		return w.WriteRaw(sub.String())
	case FramingCount:
		if len(op.Children) > maxCount {
			return newError(ErrCodeEncodeRange, w.Len(),
				fmt.Sprintf("%d sub-packets exceed %d", len(op.Children), maxCount), nil)
		}
		if err := writeFields(w, 1, 1, uint64(len(op.Children)), countBits); err != nil {
			return err
		}
		for _, child := range op.Children {
			if err := encodePacket(w, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return newError(ErrCodeEncodeRange, w.Len(),
			fmt.Sprintf("unknown framing %d", op.Framing), nil)
	}
}

// writeFields writes two consecutive fixed-width fields.
func writeFields(w *bitstream.Writer, a uint64, aBits int, b uint64, bBits int) error {
	if err := w.WriteBits(a, aBits); err != nil {
		return newError(ErrCodeEncodeRange, w.Len(), "writing field", err)
	}
	if err := w.WriteBits(b, bBits); err != nil {
		return newError(ErrCodeEncodeRange, w.Len(), "writing field", err)
	}
	return nil
}
