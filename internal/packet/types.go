package packet

// Packet is one decoded unit of a transmission.
type Packet struct {
	Version uint8
	Payload Payload
}

// Payload is a sealed interface. Only Literal and Operator implement it.
type Payload interface {
	payload() // Sealed
}

// Literal carries a single unsigned value.
type Literal struct {
	Value uint64
}

func (Literal) payload() {}

// Operator applies Kind to its children, evaluated left to right.
// Framing records how the children were laid out on the wire.
type Operator struct {
	Kind     Kind
	Framing  Framing
	Children []Packet
}

func (Operator) payload() {}

// Framing selects how an operator's children are delimited.
type Framing uint8

const (
	// FramingLength delimits children by a 15-bit total bit length.
	FramingLength Framing = 0

	// FramingCount delimits children by an 11-bit packet count.
	FramingCount Framing = 1
)

// String returns the framing name used in rendered and canonical output.
func (f Framing) String() string {
	switch f {
	case FramingLength:
		return "length"
	case FramingCount:
		return "count"
	default:
		return "unknown"
	}
}

// NewLiteral builds a literal packet.
func NewLiteral(version uint8, value uint64) Packet {
	return Packet{Version: version, Payload: Literal{Value: value}}
}

// NewOperator builds an operator packet.
func NewOperator(version uint8, kind Kind, framing Framing, children ...Packet) Packet {
	return Packet{
		Version: version,
		Payload: Operator{Kind: kind, Framing: framing, Children: children},
	}
}

// IsLiteral reports whether p carries a literal payload.
func (p Packet) IsLiteral() bool {
	_, ok := p.Payload.(Literal)
	return ok
}

// Children returns the operator children, or nil for a literal.
func (p Packet) Children() []Packet {
	if op, ok := p.Payload.(Operator); ok {
		return op.Children
	}
	return nil
}
