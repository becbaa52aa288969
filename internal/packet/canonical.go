package packet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalCanonical produces deterministic JSON for a packet tree.
// This is the serialization hashed by Hash and stored by the archive.
//
// Differences from json.Marshal:
//  1. Object keys are emitted in sorted order
//  2. No insignificant whitespace
//  3. Strings are not HTML escaped
//  4. Literal values are exact uint64 decimals
//
// Literal:  {"literal":2021,"version":6}
// Operator: {"children":[...],"framing":"length","kind":"sum","version":1}
func MarshalCanonical(p Packet) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, p Packet) error {
	switch pl := p.Payload.(type) {
	case Literal:
		buf.WriteString(`{"literal":`)
		buf.WriteString(strconv.FormatUint(pl.Value, 10))
		buf.WriteString(`,"version":`)
		buf.WriteString(strconv.FormatUint(uint64(p.Version), 10))
		buf.WriteByte('}')
		return nil

	case Operator:
		buf.WriteString(`{"children":[`)
		for i, child := range pl.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, child); err != nil {
				return fmt.Errorf("children[%d]: %w", i, err)
			}
		}
		buf.WriteString(`],"framing":`)
		if err := marshalCanonicalString(buf, pl.Framing.String()); err != nil {
			return err
		}
		buf.WriteString(`,"kind":`)
		if err := marshalCanonicalString(buf, pl.Kind.String()); err != nil {
			return err
		}
		buf.WriteString(`,"version":`)
		buf.WriteString(strconv.FormatUint(uint64(p.Version), 10))
		buf.WriteByte('}')
		return nil

	default:
		return fmt.Errorf("unsupported payload for canonical JSON: %T", p.Payload)
	}
}

// marshalCanonicalString writes a JSON string with HTML escaping disabled.
func marshalCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// json.Encoder adds a trailing newline
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}
