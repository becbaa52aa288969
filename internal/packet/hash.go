package packet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainPacket separates packet hashes from any other content hash.
// The version suffix leaves room for a future canonical form.
const DomainPacket = "bits/packet/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the content address of a tree: the SHA-256 of its canonical
// JSON. Two transmissions that decode to the same tree share a hash even if
// their padding or literal group counts differ.
func Hash(p Packet) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("hash packet: %w", err)
	}
	return hashWithDomain(DomainPacket, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or on trees produced by the decoder.
func MustHash(p Packet) string {
	h, err := Hash(p)
	if err != nil {
		panic(err)
	}
	return h
}
