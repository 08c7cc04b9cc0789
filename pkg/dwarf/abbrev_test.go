package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func TestDecodeAbbrevTableSingleEntry(t *testing.T) {
	var section []byte
	section = append(section, uleb(1)...)                  // code 1
	section = append(section, uleb(uint64(TagCompileUnit))...)
	section = append(section, 0x01)                         // has children
	section = append(section, uleb(uint64(AttrName))...)
	section = append(section, uleb(uint64(FormString))...)
	section = append(section, uleb(uint64(AttrLowPC))...)
	section = append(section, uleb(uint64(FormAddr))...)
	section = append(section, uleb(0)...) // attr 0
	section = append(section, uleb(0)...) // form 0
	section = append(section, uleb(0)...) // terminating code

	table, err := DecodeAbbrevTable(section, 0)
	require.NoError(t, err)

	decl, ok := table.Decl(1)
	require.True(t, ok)
	assert.Equal(t, TagCompileUnit, decl.Tag)
	assert.True(t, decl.HasChildren)
	assert.Equal(t, []AttrSpec{
		{Attr: AttrName, Form: FormString},
		{Attr: AttrLowPC, Form: FormAddr},
	}, decl.Attrs)

	_, ok = table.Decl(2)
	assert.False(t, ok)
}

func TestDecodeAbbrevTableDuplicateCodeFails(t *testing.T) {
	var section []byte
	for i := 0; i < 2; i++ {
		section = append(section, uleb(1)...)
		section = append(section, uleb(uint64(TagBaseType))...)
		section = append(section, 0x00)
		section = append(section, uleb(0)...)
		section = append(section, uleb(0)...)
	}
	section = append(section, uleb(0)...)

	_, err := DecodeAbbrevTable(section, 0)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeAbbrevTableOffsetIsFirstByteOfSet(t *testing.T) {
	var section []byte
	section = append(section, 0xff, 0xff, 0xff) // padding before the set
	setStart := len(section)
	section = append(section, uleb(1)...)
	section = append(section, uleb(uint64(TagVariable))...)
	section = append(section, 0x00)
	section = append(section, uleb(0)...)
	section = append(section, uleb(0)...)
	section = append(section, uleb(0)...)

	table, err := DecodeAbbrevTable(section, setStart)
	require.NoError(t, err)
	decl, ok := table.Decl(1)
	require.True(t, ok)
	assert.Equal(t, TagVariable, decl.Tag)
}
