package dwarf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDumpFixture(t *testing.T) *Data {
	t.Helper()

	abbrev, info := buildInfoWithStmtList(t, 0)

	var program []byte
	program = append(program, extOp(LneSetAddress, addr8(0x1000)...)...)
	program = append(program, LnsCopy)
	program = append(program, extOp(LneEndSequence)...)
	lineSection := buildLineProgram(t, true, program)

	arangesSection := buildArangesUnit(t, 0, 8, []AddressRange{{Address: 0x1000, Length: 0x8}})

	data, err := Open(Sections{
		Info:    info,
		Abbrev:  abbrev,
		Line:    lineSection,
		Aranges: arangesSection,
	})
	require.NoError(t, err)
	return data
}

func TestDumpTextIncludesAllSectionsByDefault(t *testing.T) {
	data := buildDumpFixture(t)

	var buf bytes.Buffer
	require.NoError(t, data.Dump(&buf, FormatText))

	out := buf.String()
	assert.Contains(t, out, "Address ranges:")
	assert.Contains(t, out, "Compilation units:")
	assert.Contains(t, out, "Line-number programs:")
}

func TestDumpTextHonorsSectionFilter(t *testing.T) {
	data := buildDumpFixture(t)

	var buf bytes.Buffer
	require.NoError(t, data.Dump(&buf, FormatText, SectionInfo))

	out := buf.String()
	assert.Contains(t, out, "Compilation units:")
	assert.NotContains(t, out, "Address ranges:")
	assert.NotContains(t, out, "Line-number programs:")
}

func TestDumpYAMLHonorsSectionFilter(t *testing.T) {
	data := buildDumpFixture(t)

	var buf bytes.Buffer
	require.NoError(t, data.Dump(&buf, FormatYAML, SectionLine))

	out := buf.String()
	assert.True(t, strings.Contains(out, "line_programs"))
	assert.False(t, strings.Contains(out, "compilation_units"))
	assert.False(t, strings.Contains(out, "aranges"))
}

func TestDumpUnknownFormatFails(t *testing.T) {
	data := buildDumpFixture(t)

	var buf bytes.Buffer
	err := data.Dump(&buf, DumpFormat(99))
	require.Error(t, err)
}
