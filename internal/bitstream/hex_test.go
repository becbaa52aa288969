package bitstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"literal packet", "D2FE28", "110100101111111000101000"},
		{"all zeros", "0", "0000"},
		{"all ones", "F", "1111"},
		{"lowercase", "d2fe28", "110100101111111000101000"},
		{"trailing newline", "38006F45291200\n", "00111000000000000110111101000101001010010001001000000000"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandHex_InvalidDigit(t *testing.T) {
	_, err := ExpandHex("D2G")
	require.ErrorIs(t, err, ErrInvalidHex)
	assert.Contains(t, err.Error(), "index 2")
}

func TestCompactHex(t *testing.T) {
	h, err := CompactHex("110100101111111000101000")
	require.NoError(t, err)
	assert.Equal(t, "D2FE28", h)

	// 21 bits pad to 24
	h, err = CompactHex("110100101111111000101")
	require.NoError(t, err)
	assert.Equal(t, "D2FE28", h)
}

func TestCompactHex_RejectsInvalidBits(t *testing.T) {
	_, err := CompactHex("10x1")
	assert.ErrorIs(t, err, ErrInvalidBit)
}

func TestWriter(t *testing.T) {
	var w Writer
	require.NoError(t, w.WriteBits(6, 3))
	require.NoError(t, w.WriteBits(4, 3))
	require.NoError(t, w.WriteRaw("10111"))
	require.NoError(t, w.WriteBits(0, 0))

	assert.Equal(t, 11, w.Len())
	assert.Equal(t, "11010010111", w.String())
	assert.Equal(t, "D2E", w.Hex())
}

func TestWriter_RejectsOversizedValue(t *testing.T) {
	var w Writer
	err := w.WriteBits(8, 3)
	require.Error(t, err)
	assert.Equal(t, 0, w.Len())
}

func TestWriter_RejectsInvalidRaw(t *testing.T) {
	var w Writer
	assert.ErrorIs(t, w.WriteRaw("012"), ErrInvalidBit)
}

func TestWriter_Full64Bits(t *testing.T) {
	var w Writer
	require.NoError(t, w.WriteBits(^uint64(0), 64))
	assert.Equal(t, "FFFFFFFFFFFFFFFF", w.Hex())
}
