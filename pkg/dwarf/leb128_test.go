package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUleb128(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected uint64
	}{
		{"zero", []byte{0x00}, 0},
		{"single byte", []byte{0x08}, 8},
		{"max single byte", []byte{0x7f}, 127},
		{"two bytes", []byte{0x80, 0x01}, 128},
		{"two bytes large", []byte{0xf0, 0x04}, 624},
		{"three bytes", []byte{0xe5, 0x8e, 0x26}, 624485},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.input)
			result, err := DecodeUleb128(c)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, len(tt.input), c.Pos())
		})
	}
}

func TestDecodeSleb128(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected int64
	}{
		{"zero", []byte{0x00}, 0},
		{"positive small", []byte{0x08}, 8},
		{"positive boundary", []byte{0x3f}, 63},
		{"negative one", []byte{0x7f}, -1},
		{"negative boundary", []byte{0x40}, -64},
		{"two bytes positive", []byte{0x80, 0x01}, 128},
		{"two bytes large", []byte{0xf0, 0x04}, 624},
		{"two bytes negative", []byte{0x80, 0x7f}, -128},
		{"three bytes positive", []byte{0xe5, 0x8e, 0x26}, 624485},
		{"three bytes negative", []byte{0x9b, 0xf1, 0x59}, -624485},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.input)
			result, err := DecodeSleb128(c)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDecodeUleb128Truncated(t *testing.T) {
	c := NewCursor([]byte{0x80})
	_, err := DecodeUleb128(c)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, c.Pos())
}

func TestDecodeSleb128Truncated(t *testing.T) {
	c := NewCursor([]byte{0x80, 0x80})
	_, err := DecodeSleb128(c)
	require.ErrorIs(t, err, ErrTruncated)
}
