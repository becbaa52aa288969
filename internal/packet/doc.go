// Package packet decodes BITS transmissions into packet trees.
//
// A transmission carries exactly one root packet. Every packet starts with a
// 3-bit version and a 3-bit type id. Type id 4 marks a literal whose value is
// spread over 5-bit groups (1 continuation bit, 4 data bits). Every other type
// id marks an operator whose children are framed in one of two ways:
//
//   - length type 0: a 15-bit total length, then exactly that many bits of
//     children
//   - length type 1: an 11-bit count, then that many children
//
// Packet trees are plain values. Payload is a sealed interface: only Literal
// and Operator implement it, and every consumer switches over both.
//
// The package also re-serializes trees (Encode), renders them as text
// (Render), and produces canonical JSON and content hashes for archival
// (MarshalCanonical, Hash).
//
// Decoding is bounded by Limits so adversarial inputs cannot drive unbounded
// recursion or allocation.
package packet
