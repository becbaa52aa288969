// Package eval reduces decoded packet trees to values.
//
// Evaluation is a pure function of the tree: it reads, never writes, and
// children are evaluated left to right. Arithmetic is unsigned 64-bit; a sum
// or product that would wrap is reported as OVERFLOW instead.
package eval

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/roach88/bits/internal/packet"
)

// ErrorCode categorizes evaluation failures.
type ErrorCode string

const (
	// ErrCodeOverflow indicates a sum or product outside uint64.
	ErrCodeOverflow ErrorCode = "OVERFLOW"

	// ErrCodeArityMismatch indicates a comparison without exactly two operands.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// ErrCodeEmptyOperator indicates an operator with no operands.
	ErrCodeEmptyOperator ErrorCode = "EMPTY_OPERATOR"

	// ErrCodeUnknownOperator indicates a payload or kind outside the grammar.
	ErrCodeUnknownOperator ErrorCode = "UNKNOWN_OPERATOR"
)

// Error reports why a tree could not be evaluated.
type Error struct {
	Code    ErrorCode
	Kind    packet.Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsOverflow reports whether err is an arithmetic overflow.
// Uses errors.As to handle wrapped errors.
func IsOverflow(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeOverflow
	}
	return false
}

// Evaluate computes the value of p.
func Evaluate(p packet.Packet) (uint64, error) {
	switch pl := p.Payload.(type) {
	case packet.Literal:
		return pl.Value, nil
	case packet.Operator:
		return evaluateOperator(pl)
	default:
		return 0, &Error{
			Code:    ErrCodeUnknownOperator,
			Message: fmt.Sprintf("cannot evaluate payload %T", p.Payload),
		}
	}
}

func evaluateOperator(op packet.Operator) (uint64, error) {
	if len(op.Children) == 0 {
		return 0, &Error{
			Code:    ErrCodeEmptyOperator,
			Kind:    op.Kind,
			Message: fmt.Sprintf("%s has no operands", op.Kind),
		}
	}

	values := make([]uint64, len(op.Children))
	for i, child := range op.Children {
		v, err := Evaluate(child)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}

	switch op.Kind {
	case packet.KindSum:
		return sum(values)
	case packet.KindProduct:
		return product(values)
	case packet.KindMinimum:
		return reduce(values, func(a, b uint64) uint64 { return min(a, b) }), nil
	case packet.KindMaximum:
		return reduce(values, func(a, b uint64) uint64 { return max(a, b) }), nil
	case packet.KindGreaterThan, packet.KindLessThan, packet.KindEqualTo:
		return compare(op.Kind, values)
	default:
		return 0, &Error{
			Code:    ErrCodeUnknownOperator,
			Kind:    op.Kind,
			Message: fmt.Sprintf("unknown operator %s", op.Kind),
		}
	}
}

func sum(values []uint64) (uint64, error) {
	var total uint64
	for _, v := range values {
		var carry uint64
		total, carry = bits.Add64(total, v, 0)
		if carry != 0 {
			return 0, overflow(packet.KindSum)
		}
	}
	return total, nil
}

func product(values []uint64) (uint64, error) {
	total := uint64(1)
	for _, v := range values {
		var hi uint64
		hi, total = bits.Mul64(total, v)
		if hi != 0 {
			return 0, overflow(packet.KindProduct)
		}
	}
	return total, nil
}

func reduce(values []uint64, fn func(a, b uint64) uint64) uint64 {
	acc := values[0]
	for _, v := range values[1:] {
		acc = fn(acc, v)
	}
	return acc
}

func compare(kind packet.Kind, values []uint64) (uint64, error) {
	if len(values) != 2 {
		return 0, &Error{
			Code:    ErrCodeArityMismatch,
			Kind:    kind,
			Message: fmt.Sprintf("%s needs 2 operands, got %d", kind, len(values)),
		}
	}
	a, b := values[0], values[1]
	var ok bool
	switch kind {
	case packet.KindGreaterThan:
		ok = a > b
	case packet.KindLessThan:
		ok = a < b
	case packet.KindEqualTo:
		ok = a == b
	}
	if ok {
		return 1, nil
	}
	return 0, nil
}

func overflow(kind packet.Kind) *Error {
	return &Error{
		Code:    ErrCodeOverflow,
		Kind:    kind,
		Message: fmt.Sprintf("%s overflows uint64", kind),
	}
}
