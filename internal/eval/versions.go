package eval

import "github.com/roach88/bits/internal/packet"

// SumVersions adds the version of p and of every packet below it.
// It is a diagnostic, independent of Evaluate.
func SumVersions(p packet.Packet) uint64 {
	total := uint64(p.Version)
	switch pl := p.Payload.(type) {
	case packet.Literal:
	case packet.Operator:
		for _, child := range pl.Children {
			total += SumVersions(child)
		}
	}
	return total
}
