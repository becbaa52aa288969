package packet

import "fmt"

// TypeIDLiteral is the type id that marks a literal packet.
const TypeIDLiteral = 4

// Kind identifies an operator. Its value is the wire type id.
type Kind uint8

const (
	KindSum         Kind = 0
	KindProduct     Kind = 1
	KindMinimum     Kind = 2
	KindMaximum     Kind = 3
	KindGreaterThan Kind = 5
	KindLessThan    Kind = 6
	KindEqualTo     Kind = 7
)

// Kinds lists every operator kind in type id order.
var Kinds = []Kind{
	KindSum, KindProduct, KindMinimum, KindMaximum,
	KindGreaterThan, KindLessThan, KindEqualTo,
}

var kindNames = map[Kind]string{
	KindSum:         "sum",
	KindProduct:     "product",
	KindMinimum:     "minimum",
	KindMaximum:     "maximum",
	KindGreaterThan: "greater_than",
	KindLessThan:    "less_than",
	KindEqualTo:     "equal_to",
}

// KindFromTypeID maps a 3-bit type id to an operator kind.
// Type id 4 is a literal, not an operator, and is rejected.
func KindFromTypeID(id uint64) (Kind, error) {
	k := Kind(id)
	if id > 7 || id == TypeIDLiteral {
		return 0, fmt.Errorf("type id %d is not an operator", id)
	}
	return k, nil
}

// ParseKind maps an operator name back to its kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown operator kind %q", name)
}

// TypeID returns the wire type id.
func (k Kind) TypeID() uint64 {
	return uint64(k)
}

// Valid reports whether k is one of the seven operator kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsComparison reports whether k requires exactly two operands.
func (k Kind) IsComparison() bool {
	return k == KindGreaterThan || k == KindLessThan || k == KindEqualTo
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}
