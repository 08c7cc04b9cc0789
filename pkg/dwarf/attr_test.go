package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAttrString(t *testing.T) {
	c := NewCursor([]byte("hello\x00trailing"))
	v, err := readAttr(c, FormString, 8, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Str)
}

func TestReadAttrStrpResolvesAgainstStrSection(t *testing.T) {
	str := []byte("abc\x00def\x00")
	c := NewCursor([]byte{4, 0, 0, 0}) // offset 4 -> "def"
	v, err := readAttr(c, FormStrp, 8, str)
	require.NoError(t, err)
	assert.Equal(t, "def", v.Str)
	assert.Equal(t, uint64(4), v.Strp)
}

func TestReadAttrStrpWithoutStrSectionFails(t *testing.T) {
	c := NewCursor([]byte{0, 0, 0, 0})
	_, err := readAttr(c, FormStrp, 8, nil)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestReadAttrAddrRespectsAddrSize(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x00, 0x00, 0x00})
	v, err := readAttr(c, FormAddr, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Addr)
	assert.Equal(t, 4, c.Pos())
}

func TestReadAttrBlock1(t *testing.T) {
	c := NewCursor([]byte{3, 0xde, 0xad, 0xbe, 0xef})
	v, err := readAttr(c, FormBlock1, 8, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe}, v.Block)
	assert.Equal(t, 4, c.Pos())
}

func TestReadAttrIndirectRecurses(t *testing.T) {
	c := NewCursor(append(uleb(uint64(FormUdata)), uleb(42)...))
	v, err := readAttr(c, FormIndirect, 8, nil)
	require.NoError(t, err)
	assert.Equal(t, FormUdata, v.Form)
	assert.Equal(t, uint64(42), v.Udata)
}

func TestReadAttrUnsupportedForm(t *testing.T) {
	c := NewCursor([]byte{0})
	_, err := readAttr(c, Form(0xff), 8, nil)
	require.ErrorIs(t, err, ErrUnsupportedForm)
}

func TestReadAttrRefVsDataDistinguishedByForm(t *testing.T) {
	c := NewCursor([]byte{5, 0, 0, 0})
	v, err := readAttr(c, FormRef4, 8, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v.Ref)
	assert.Equal(t, uint64(0), v.Udata)
}
