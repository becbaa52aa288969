// Package bitstream provides bit-level primitives for BITS transmissions.
//
// A transmission is carried as hexadecimal text. ExpandHex turns it into a
// string of '0'/'1' characters, one 4-bit group per hex digit. A Cursor reads
// that string sequentially, most significant bit first, and never backtracks.
// A Writer is the inverse and is used when re-serializing decoded trees.
//
// This package knows nothing about packets. It only counts bits.
package bitstream
