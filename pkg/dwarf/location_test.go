package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLocationAddr(t *testing.T) {
	expr := append([]byte{opAddr}, addr8(0x4000)...)
	loc, err := DecodeLocation(expr, 8)
	require.NoError(t, err)
	assert.Equal(t, AddressLocation{Addr: 0x4000}, loc)
}

func TestDecodeLocationRegister(t *testing.T) {
	loc, err := DecodeLocation([]byte{opReg0 + 3}, 8)
	require.NoError(t, err)
	assert.Equal(t, RegisterLocation{Reg: 3}, loc)
}

func TestDecodeLocationRegx(t *testing.T) {
	expr := append([]byte{opRegx}, uleb(40)...)
	loc, err := DecodeLocation(expr, 8)
	require.NoError(t, err)
	assert.Equal(t, RegisterLocation{Reg: 40}, loc)
}

func TestDecodeLocationBregIsFrameOffset(t *testing.T) {
	expr := append([]byte{opBreg0 + 5}, int8ToByte(-16)...)
	loc, err := DecodeLocation(expr, 8)
	require.NoError(t, err)
	assert.Equal(t, FrameOffsetLocation{Offset: -16}, loc)
}

func TestDecodeLocationFbreg(t *testing.T) {
	expr := append([]byte{opFbreg}, int8ToByte(-24)...)
	loc, err := DecodeLocation(expr, 8)
	require.NoError(t, err)
	assert.Equal(t, FrameOffsetLocation{Offset: -24}, loc)
}

func TestDecodeLocationUnknownOpcode(t *testing.T) {
	_, err := DecodeLocation([]byte{0xff}, 8)
	require.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestDecodeLocationEmptyExpression(t *testing.T) {
	_, err := DecodeLocation(nil, 8)
	require.ErrorIs(t, err, ErrMalformed)
}
