package dwarf

import (
	"fmt"
	"io"
	"strings"

	"github.com/eskaton/thyrion/pkg/utils"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func hex(v uint64) string {
	return utils.FormatUintHex(v, 0)
}

// DumpFormat selects how Dump renders a Data value.
type DumpFormat int

const (
	// FormatText renders a plain-text tree, modeled on the classic dwarfdump
	// style: one section per heading, DIEs indented by nesting depth.
	FormatText DumpFormat = iota
	// FormatColor is FormatText with tag names, addresses and attribute
	// names picked out in color, for an interactive terminal.
	FormatColor
	// FormatYAML renders a structured snapshot suitable for diffing or
	// feeding to other tools.
	FormatYAML
)

// Section names accepted by Dump's sections filter.
const (
	SectionAranges = "aranges"
	SectionInfo    = "info"
	SectionLine    = "line"
)

var allDumpSections = map[string]bool{SectionAranges: true, SectionInfo: true, SectionLine: true}

// Dump writes a human- or machine-readable rendering of d to w. sections
// restricts which of "aranges", "info" and "line" are rendered; passing
// none renders all three.
func (d *Data) Dump(w io.Writer, format DumpFormat, sections ...string) error {
	want := allDumpSections
	if len(sections) > 0 {
		want = make(map[string]bool, len(sections))
		for _, s := range sections {
			want[s] = true
		}
	}

	switch format {
	case FormatText:
		return dumpText(w, d, false, want)
	case FormatColor:
		return dumpText(w, d, true, want)
	case FormatYAML:
		return dumpYAML(w, d, want)
	default:
		return fmt.Errorf("unknown dump format %d", format)
	}
}

func dumpText(w io.Writer, d *Data, colorize bool, want map[string]bool) error {
	tagColor := plainSprint
	addrColor := plainSprint
	attrColor := plainSprint
	if colorize {
		tagColor = color.New(color.FgCyan, color.Bold).SprintFunc()
		addrColor = color.New(color.FgYellow).SprintFunc()
		attrColor = color.New(color.FgGreen).SprintFunc()
	}

	bw := &errWriter{w: w}

	if want[SectionAranges] {
		bw.printf("Address ranges:\n")
		for _, t := range d.Aranges {
			bw.printf("  unit @ %s (info offset %s):\n", addrColor(hex(t.Offset)), addrColor(hex(t.InfoOffset)))
			for _, r := range t.Ranges {
				bw.printf("    [%s, %s)\n", addrColor(hex(r.Address)), addrColor(hex(r.Address+r.Length)))
			}
		}
	}

	if want[SectionInfo] {
		bw.printf("\nCompilation units:\n")
		for _, cu := range d.CUs {
			bw.printf("  CU @ %s (version %d, addr_size %d)\n", addrColor(hex(cu.Offset)), cu.Version, cu.AddrSize)
			dumpEntryTree(bw, cu.Root, 2, tagColor, attrColor)
		}
	}

	if want[SectionLine] {
		bw.printf("\nLine-number programs:\n")
		for _, prog := range d.LinePrograms {
			bw.printf("  program @ %s\n", addrColor(hex(prog.Offset)))
			for i, f := range prog.Files {
				bw.printf("    file %d: %s\n", i+1, f.Name)
			}
			for _, row := range prog.Rows {
				bw.printf("    %s  file=%d line=%d col=%d stmt=%v end=%v\n",
					addrColor(hex(row.Address)), row.File, row.Line, row.Column, row.IsStmt, row.EndSequence)
			}
		}
	}

	return bw.err
}

// dumpEntryTree walks the DIE forest with an explicit stack instead of
// recursion, mirroring the way the tree was built in the first place.
func dumpEntryTree(bw *errWriter, root *Entry, baseIndent int, tagColor, attrColor func(...any) string) {
	type frame struct {
		entry  *Entry
		indent int
	}
	stack := []frame{{entry: root, indent: baseIndent}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pad := strings.Repeat("  ", f.indent)
		bw.printf("%s%s @ %s\n", pad, tagColor(f.entry.Tag.String()), hex(f.entry.Offset))
		for _, av := range f.entry.Attrs {
			bw.printf("%s  %s = %s\n", pad, attrColor(av.Attr.String()), formatValue(av.Value))
		}

		for i := len(f.entry.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{entry: f.entry.Children[i], indent: f.indent + 1})
		}
	}
}

func formatValue(v Value) string {
	switch v.Form {
	case FormString, FormStrp:
		return v.Str
	case FormAddr:
		return hex(v.Addr)
	case FormRefAddr:
		return hex(v.RefAddr)
	case FormRef1, FormRef2, FormRef4, FormRef8, FormRefUdata:
		return hex(v.Ref)
	case FormBlock, FormBlock1, FormBlock2, FormBlock4:
		return fmt.Sprintf("%d bytes of binary data", len(v.Block))
	case FormSdata:
		return fmt.Sprintf("%d", v.Sdata)
	default:
		return fmt.Sprintf("%d", v.Udata)
	}
}

func plainSprint(a ...any) string {
	return fmt.Sprint(a...)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// yamlEntry and yamlCU are a deliberately separate snapshot shape: the
// internal Entry/CU graph holds raw []byte sub-slices of the section
// data that don't round-trip cleanly through YAML, so Dump marshals a
// plain copy instead of the live graph.
type yamlValue struct {
	Form string `yaml:"form"`
	Text string `yaml:"value"`
}

type yamlAttr struct {
	Name  string    `yaml:"name"`
	Value yamlValue `yaml:"value"`
}

type yamlEntry struct {
	Offset   uint64      `yaml:"offset"`
	Tag      string      `yaml:"tag"`
	Attrs    []yamlAttr  `yaml:"attrs,omitempty"`
	Children []yamlEntry `yaml:"children,omitempty"`
}

type yamlRow struct {
	Address     uint64 `yaml:"address"`
	File        int    `yaml:"file"`
	Line        int    `yaml:"line"`
	Column      int    `yaml:"column"`
	IsStmt      bool   `yaml:"is_stmt"`
	EndSequence bool   `yaml:"end_sequence"`
}

type yamlLineProgram struct {
	Offset uint64    `yaml:"offset"`
	Files  []string  `yaml:"files"`
	Rows   []yamlRow `yaml:"rows"`
}

type yamlArangeTable struct {
	InfoOffset uint64         `yaml:"info_offset"`
	Ranges     []AddressRange `yaml:"ranges"`
}

type yamlCU struct {
	Offset  uint64    `yaml:"offset"`
	Version uint16    `yaml:"version"`
	Root    yamlEntry `yaml:"root"`
}

type yamlSnapshot struct {
	Aranges      []yamlArangeTable `yaml:"aranges,omitempty"`
	CUs          []yamlCU          `yaml:"compilation_units,omitempty"`
	LinePrograms []yamlLineProgram `yaml:"line_programs,omitempty"`
}

func toYAMLEntry(e *Entry) yamlEntry {
	ye := yamlEntry{Offset: e.Offset, Tag: e.Tag.String()}
	for _, av := range e.Attrs {
		ye.Attrs = append(ye.Attrs, yamlAttr{
			Name:  av.Attr.String(),
			Value: yamlValue{Form: av.Value.Form.String(), Text: formatValue(av.Value)},
		})
	}
	for _, child := range e.Children {
		ye.Children = append(ye.Children, toYAMLEntry(child))
	}
	return ye
}

func dumpYAML(w io.Writer, d *Data, want map[string]bool) error {
	snap := yamlSnapshot{}
	if want[SectionAranges] {
		for _, t := range d.Aranges {
			snap.Aranges = append(snap.Aranges, yamlArangeTable{InfoOffset: t.InfoOffset, Ranges: t.Ranges})
		}
	}
	if want[SectionInfo] {
		for _, cu := range d.CUs {
			snap.CUs = append(snap.CUs, yamlCU{Offset: cu.Offset, Version: cu.Version, Root: toYAMLEntry(cu.Root)})
		}
	}
	if want[SectionLine] {
		for _, prog := range d.LinePrograms {
			yp := yamlLineProgram{Offset: prog.Offset}
			for _, f := range prog.Files {
				yp.Files = append(yp.Files, f.Name)
			}
			for _, r := range prog.Rows {
				yp.Rows = append(yp.Rows, yamlRow{
					Address: r.Address, File: r.File, Line: r.Line, Column: r.Column,
					IsStmt: r.IsStmt, EndSequence: r.EndSequence,
				})
			}
			snap.LinePrograms = append(snap.LinePrograms, yp)
		}
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(snap)
}
