package dwarf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFunctionCU builds a single CU containing one DW_TAG_subprogram
// with a formal parameter and a lexical block holding a local variable.
func buildFunctionCU(t *testing.T) (abbrev, info []byte) {
	t.Helper()

	// abbrev codes: 1=compile_unit(children), 2=subprogram(children),
	// 3=formal_parameter(no children, name+location),
	// 4=lexical_block(children, low/high pc),
	// 5=variable(no children, name+location)
	appendAbbrev := func(code uint64, tag Tag, hasChildren bool, attrs ...AttrSpec) {
		abbrev = append(abbrev, uleb(code)...)
		abbrev = append(abbrev, uleb(uint64(tag))...)
		if hasChildren {
			abbrev = append(abbrev, 0x01)
		} else {
			abbrev = append(abbrev, 0x00)
		}
		for _, a := range attrs {
			abbrev = append(abbrev, uleb(uint64(a.Attr))...)
			abbrev = append(abbrev, uleb(uint64(a.Form))...)
		}
		abbrev = append(abbrev, uleb(0)...)
		abbrev = append(abbrev, uleb(0)...)
	}
	appendAbbrev(1, TagCompileUnit, true, AttrSpec{AttrName, FormString})
	appendAbbrev(2, TagSubprogram, true, AttrSpec{AttrName, FormString}, AttrSpec{AttrLowPC, FormAddr}, AttrSpec{AttrHighPC, FormAddr})
	appendAbbrev(3, TagFormalParameter, false, AttrSpec{AttrName, FormString}, AttrSpec{AttrLocation, FormBlock1})
	appendAbbrev(4, TagLexicalBlock, true, AttrSpec{AttrLowPC, FormAddr}, AttrSpec{AttrHighPC, FormAddr})
	appendAbbrev(5, TagVariable, false, AttrSpec{AttrName, FormString}, AttrSpec{AttrLocation, FormBlock1})
	abbrev = append(abbrev, uleb(0)...)

	regLoc := []byte{opReg0 + 2} // register 2
	fbLoc := append([]byte{opFbreg}, int8ToByte(-8)...)

	var body []byte
	body = append(body, uleb(1)...)
	body = append(body, []byte("u.c\x00")...)

	body = append(body, uleb(2)...)
	body = append(body, []byte("main\x00")...)
	body = append(body, addr8(0x1000)...)
	body = append(body, addr8(0x1100)...)

	body = append(body, uleb(3)...)
	body = append(body, []byte("argc\x00")...)
	body = append(body, byte(len(regLoc)))
	body = append(body, regLoc...)

	body = append(body, uleb(4)...)
	body = append(body, addr8(0x1010)...)
	body = append(body, addr8(0x1020)...)

	body = append(body, uleb(5)...)
	body = append(body, []byte("tmp\x00")...)
	body = append(body, byte(len(fbLoc)))
	body = append(body, fbLoc...)

	body = append(body, uleb(0)...) // end lexical_block's children
	body = append(body, uleb(0)...) // end subprogram's children
	body = append(body, uleb(0)...) // end compile_unit's children

	length := uint32(7 + len(body))
	info = make([]byte, 4)
	binary.LittleEndian.PutUint32(info, length)
	info = append(info, 0x03, 0x00)
	info = append(info, 0x00, 0x00, 0x00, 0x00)
	info = append(info, 0x08)
	info = append(info, body...)
	return abbrev, info
}

func TestBuildInfo(t *testing.T) {
	abbrev, info := buildFunctionCU(t)
	cu, _, err := decodeCU(info, 0, abbrev, nil)
	require.NoError(t, err)

	data := &Data{CUs: []*CU{cu}}
	built, err := BuildInfo(data)
	require.NoError(t, err)

	require.Len(t, built.Functions, 1)
	fn := built.Functions[0]
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, uint64(0x1000), fn.LowPC)
	assert.Equal(t, uint64(0x1100), fn.HighPC)

	require.Len(t, fn.Parameters, 1)
	assert.Equal(t, "argc", fn.Parameters[0].Name)
	assert.Equal(t, RegisterLocation{Reg: 2}, fn.Parameters[0].Location)

	require.Len(t, fn.Scopes, 1)
	require.Len(t, fn.Scopes[0].Variables, 1)
	assert.Equal(t, "tmp", fn.Scopes[0].Variables[0].Name)
	assert.Equal(t, FrameOffsetLocation{Offset: -8}, fn.Scopes[0].Variables[0].Location)

	assert.Same(t, fn, built.FunctionAt(0x1050))
	assert.Nil(t, built.FunctionAt(0x2000))

	atScope := built.VariablesAt(0x1015)
	names := map[string]bool{}
	for _, v := range atScope {
		names[v.Name] = true
	}
	assert.True(t, names["argc"])
	assert.True(t, names["tmp"])

	outsideScope := built.VariablesAt(0x1005)
	names = map[string]bool{}
	for _, v := range outsideScope {
		names[v.Name] = true
	}
	assert.True(t, names["argc"])
	assert.False(t, names["tmp"])
}
