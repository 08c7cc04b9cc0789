package dwarf

// Sections holds the raw bytes of the debug sections the decoder needs,
// as handed back by an ELF (or other object format) reader. Data built
// from a Sections value keeps sub-slices of it, so the Sections' backing
// arrays must outlive the Data.
type Sections struct {
	Info    []byte
	Abbrev  []byte
	Line    []byte
	Aranges []byte
	Str     []byte // optional; nil means no .debug_str
}

// Data is the fully decoded form of one object's debug information: every
// compilation unit, every line-number program referenced by one, and
// every address-range table, cross-referenced by offset rather than by
// pointer.
type Data struct {
	CUs          []*CU
	LinePrograms []*LineProgram
	Aranges      []*ArangeTable
	Str          *StrTable
}

// Open decodes every compilation unit, line-number program and
// address-range table in sections. Info, Abbrev, Line and Aranges are
// required; Str is optional, but any attribute encoded as FORM_strp then
// fails to decode with ErrOutOfRange.
func Open(sections Sections) (*Data, error) {
	if len(sections.Info) == 0 || len(sections.Abbrev) == 0 || len(sections.Line) == 0 || len(sections.Aranges) == 0 {
		return nil, wrap(ErrNoDebugInfo, "object is missing one or more of .debug_info/.debug_abbrev/.debug_line/.debug_aranges")
	}

	d := &Data{Str: NewStrTable(sections.Str)}

	for off := 0; off < len(sections.Info); {
		cu, next, err := decodeCU(sections.Info, off, sections.Abbrev, sections.Str)
		if err != nil {
			return nil, err
		}
		d.CUs = append(d.CUs, cu)
		off = next
	}

	seenLineProgram := make(map[uint64]bool)
	for _, cu := range d.CUs {
		v, ok := cu.Root.Attr(AttrStmtList)
		if !ok {
			continue
		}
		stmtOff := v.Udata
		if seenLineProgram[stmtOff] {
			continue
		}
		seenLineProgram[stmtOff] = true

		prog, _, err := DecodeLineProgram(sections.Line, int(stmtOff), cu.AddrSize)
		if err != nil {
			return nil, wrap(ErrMalformed, "decoding line program for CU %d: %v", cu.Offset, err)
		}
		d.LinePrograms = append(d.LinePrograms, prog)
	}

	for off := 0; off < len(sections.Aranges); {
		t, next, err := DecodeArangesUnit(sections.Aranges, off)
		if err != nil {
			return nil, err
		}
		d.Aranges = append(d.Aranges, t)
		off = next
	}

	return d, nil
}

// FindAddress resolves a source file and line number to the address of
// the matching row in whichever line-number program contains it.
// Programs are consulted in section order and the search stops at the
// first match, matching file by its registered name (not by path
// normalization: callers pass the name exactly as it appears in the
// object's file table, e.g. via Data.SourceFiles).
func (d *Data) FindAddress(file string, line int) (uint64, bool) {
	for _, prog := range d.LinePrograms {
		fileIndex := 0
		for i, f := range prog.Files {
			if f.Name == file {
				fileIndex = i + 1
				break
			}
		}
		if fileIndex == 0 {
			continue
		}
		for _, row := range prog.Rows {
			if row.EndSequence {
				continue
			}
			if row.File == fileIndex && row.Line == line {
				return row.Address, true
			}
		}
	}
	return 0, false
}

// SourceFiles returns every distinct file name registered across all
// decoded line-number programs, in section/declaration order.
func (d *Data) SourceFiles() []string {
	var out []string
	seen := make(map[string]bool)
	for _, prog := range d.LinePrograms {
		for _, f := range prog.Files {
			if !seen[f.Name] {
				seen[f.Name] = true
				out = append(out, f.Name)
			}
		}
	}
	return out
}
