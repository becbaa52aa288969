package packet

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes decode and encode failures.
type ErrorCode string

const (
	// ErrCodeInsufficientBits indicates a read ran past the end of the
	// stream or of a length-bounded sub-stream.
	ErrCodeInsufficientBits ErrorCode = "INSUFFICIENT_BITS"

	// ErrCodeUnexpectedTrailingBits indicates a length-bounded sub-stream
	// was not consumed exactly by its children.
	ErrCodeUnexpectedTrailingBits ErrorCode = "UNEXPECTED_TRAILING_BITS"

	// ErrCodeUnknownTypeID indicates a type id outside the grammar.
	// The 3-bit id space is fully enumerated, so this is an internal defect.
	ErrCodeUnknownTypeID ErrorCode = "UNKNOWN_TYPE_ID"

	// ErrCodeInvalidBit indicates the input was not a '0'/'1' string.
	ErrCodeInvalidBit ErrorCode = "INVALID_BIT"

	// ErrCodeInvalidHex indicates transmission text that is not hexadecimal.
	ErrCodeInvalidHex ErrorCode = "INVALID_HEX"

	// ErrCodeLiteralOverflow indicates a literal wider than 64 bits.
	ErrCodeLiteralOverflow ErrorCode = "LITERAL_OVERFLOW"

	// ErrCodeEmptyOperator indicates an operator without children.
	ErrCodeEmptyOperator ErrorCode = "EMPTY_OPERATOR"

	// ErrCodeArityMismatch indicates a comparison without exactly two children.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// ErrCodeDepthExceeded indicates nesting deeper than Limits.MaxDepth.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"

	// ErrCodePacketLimitExceeded indicates more packets than Limits.MaxPackets.
	ErrCodePacketLimitExceeded ErrorCode = "PACKET_LIMIT_EXCEEDED"

	// ErrCodeInputTooLarge indicates an input longer than Limits.MaxInputBits.
	ErrCodeInputTooLarge ErrorCode = "INPUT_TOO_LARGE"

	// ErrCodeEncodeRange indicates a tree that cannot be expressed on the wire.
	ErrCodeEncodeRange ErrorCode = "ENCODE_RANGE"
)

// DecodeError reports why a transmission could not be decoded or encoded.
// Offset is the absolute bit position where the failure was detected.
type DecodeError struct {
	Code    ErrorCode
	Offset  int
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at bit %d: %s: %v", e.Code, e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("%s at bit %d: %s", e.Code, e.Offset, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// CodeOf returns the error code carried by err, or "" if err is not a DecodeError.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsInsufficientBits reports whether err is an INSUFFICIENT_BITS failure.
func IsInsufficientBits(err error) bool {
	return CodeOf(err) == ErrCodeInsufficientBits
}

// IsUnexpectedTrailingBits reports whether err is an UNEXPECTED_TRAILING_BITS failure.
func IsUnexpectedTrailingBits(err error) bool {
	return CodeOf(err) == ErrCodeUnexpectedTrailingBits
}

// IsLimitError reports whether err was caused by a decode limit.
func IsLimitError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeDepthExceeded, ErrCodePacketLimitExceeded, ErrCodeInputTooLarge:
		return true
	}
	return false
}

func newError(code ErrorCode, offset int, message string, err error) *DecodeError {
	return &DecodeError{Code: code, Offset: offset, Message: message, Err: err}
}
