package dwarf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArangesUnit(t *testing.T, infoOffset uint32, addrSize int, ranges []AddressRange) []byte {
	t.Helper()

	var body []byte
	body = append(body, 0x02, 0x00) // version 2
	infoBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(infoBuf, infoOffset)
	body = append(body, infoBuf...)
	body = append(body, byte(addrSize))
	body = append(body, 0) // segment_size

	tupleSize := 2 * addrSize
	pos := arangesHeaderLen
	if pad := (tupleSize - pos%tupleSize) % tupleSize; pad > 0 {
		body = append(body, make([]byte, pad)...)
	}

	putAddr := func(v uint64) {
		b := make([]byte, addrSize)
		if addrSize == 8 {
			binary.LittleEndian.PutUint64(b, v)
		} else {
			binary.LittleEndian.PutUint32(b, uint32(v))
		}
		body = append(body, b...)
	}
	for _, r := range ranges {
		putAddr(r.Address)
		putAddr(r.Length)
	}
	putAddr(0)
	putAddr(0)

	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(len(body)))
	out = append(out, body...)
	return out
}

func TestDecodeArangesUnit(t *testing.T) {
	section := buildArangesUnit(t, 0x40, 8, []AddressRange{{Address: 0x1000, Length: 0x20}})

	table, next, err := DecodeArangesUnit(section, 0)
	require.NoError(t, err)
	assert.Equal(t, len(section), next)
	assert.Equal(t, uint64(0x40), table.InfoOffset)
	require.Len(t, table.Ranges, 1)
	assert.Equal(t, uint64(0x1000), table.Ranges[0].Address)
	assert.Equal(t, uint64(0x20), table.Ranges[0].Length)
}

func TestFindCUMatchesAcrossTables(t *testing.T) {
	a := buildArangesUnit(t, 0x10, 8, []AddressRange{{Address: 0x1000, Length: 0x10}})
	aTable, _, err := DecodeArangesUnit(a, 0)
	require.NoError(t, err)

	b := buildArangesUnit(t, 0x20, 8, []AddressRange{{Address: 0x2000, Length: 0x10}})
	bTable, _, err := DecodeArangesUnit(b, 0)
	require.NoError(t, err)

	off, ok := FindCU([]*ArangeTable{aTable, bTable}, 0x2004)
	require.True(t, ok)
	assert.Equal(t, uint64(0x20), off)

	_, ok = FindCU([]*ArangeTable{aTable, bTable}, 0x3000)
	assert.False(t, ok)
}
