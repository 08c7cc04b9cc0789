package dwarf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAbbrevAndInfo(t *testing.T) (abbrev, info []byte) {
	t.Helper()

	abbrev = append(abbrev, uleb(1)...)
	abbrev = append(abbrev, uleb(uint64(TagCompileUnit))...)
	abbrev = append(abbrev, 0x01) // has children
	abbrev = append(abbrev, uleb(uint64(AttrName))...)
	abbrev = append(abbrev, uleb(uint64(FormString))...)
	abbrev = append(abbrev, uleb(0)...)
	abbrev = append(abbrev, uleb(0)...)

	abbrev = append(abbrev, uleb(2)...)
	abbrev = append(abbrev, uleb(uint64(TagVariable))...)
	abbrev = append(abbrev, 0x00) // no children
	abbrev = append(abbrev, uleb(uint64(AttrName))...)
	abbrev = append(abbrev, uleb(uint64(FormString))...)
	abbrev = append(abbrev, uleb(0)...)
	abbrev = append(abbrev, uleb(0)...)

	abbrev = append(abbrev, uleb(0)...) // terminate table

	var body []byte
	body = append(body, uleb(1)...)
	body = append(body, []byte("root\x00")...)
	body = append(body, uleb(2)...)
	body = append(body, []byte("child\x00")...)
	body = append(body, uleb(0)...) // end children of root

	length := uint32(7 + len(body)) // version+abbrev_off+addr_size + body

	info = make([]byte, 4)
	binary.LittleEndian.PutUint32(info, length)
	info = append(info, 0x03, 0x00) // version 3
	info = append(info, 0x00, 0x00, 0x00, 0x00) // abbrev_offset 0
	info = append(info, 0x08)                   // addr_size 8
	info = append(info, body...)
	return abbrev, info
}

func TestDecodeCU(t *testing.T) {
	abbrev, info := buildAbbrevAndInfo(t)

	cu, next, err := decodeCU(info, 0, abbrev, nil)
	require.NoError(t, err)
	assert.Equal(t, len(info), next)
	assert.Equal(t, uint16(3), cu.Version)
	assert.Equal(t, 8, cu.AddrSize)

	require.NotNil(t, cu.Root)
	assert.Equal(t, TagCompileUnit, cu.Root.Tag)
	assert.Equal(t, "root", cu.Root.Name())
	require.Len(t, cu.Root.Children, 1)
	assert.Equal(t, "child", cu.Root.Children[0].Name())
	assert.Equal(t, TagVariable, cu.Root.Children[0].Tag)

	assert.Len(t, cu.ByOffset, 2)
}

func TestDecodeCUUnknownAbbrevCodeFails(t *testing.T) {
	abbrev, info := buildAbbrevAndInfo(t)
	// Corrupt the root DIE's abbrev code (first byte of body) to an unknown one.
	info[11] = 99
	_, _, err := decodeCU(info, 0, abbrev, nil)
	require.ErrorIs(t, err, ErrMalformed)
}
