package packet

import "fmt"

// Limits bounds the work a single decode call may do.
//
// The wire format lets an untrusted header declare up to 2047 children or
// 32767 bits of children per operator, recursively. Limits caps the total so
// a hostile transmission fails fast instead of exhausting the stack or heap.
type Limits struct {
	MaxDepth     int // Deepest allowed nesting; the root is depth 1
	MaxPackets   int // Total packets per decode call
	MaxInputBits int // Longest accepted input
}

// DefaultLimits returns the limits used by Decode and DecodeHex.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:     512,
		MaxPackets:   1 << 16,
		MaxInputBits: 1 << 20,
	}
}

// Validate rejects non-positive limits.
func (l Limits) Validate() error {
	if l.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", l.MaxDepth)
	}
	if l.MaxPackets <= 0 {
		return fmt.Errorf("max_packets must be positive, got %d", l.MaxPackets)
	}
	if l.MaxInputBits <= 0 {
		return fmt.Errorf("max_input_bits must be positive, got %d", l.MaxInputBits)
	}
	return nil
}

// quota tracks packets and depth for one decode call.
//
// Depth catches deep nesting (stack growth); the packet count catches wide
// trees (heap growth). Together they bound every decode.
type quota struct {
	limits  Limits
	packets int
}

func newQuota(limits Limits) *quota {
	return &quota{limits: limits}
}

// enter is called before decoding each packet at the given depth.
func (q *quota) enter(depth, offset int) error {
	if depth > q.limits.MaxDepth {
		return newError(ErrCodeDepthExceeded, offset,
			fmt.Sprintf("nesting depth %d > %d limit", depth, q.limits.MaxDepth), nil)
	}
	q.packets++
	if q.packets > q.limits.MaxPackets {
		return newError(ErrCodePacketLimitExceeded, offset,
			fmt.Sprintf("%d packets > %d limit", q.packets, q.limits.MaxPackets), nil)
	}
	return nil
}
